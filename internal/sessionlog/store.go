package sessionlog

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a SQLite-backed recorder for one or more sessions. Callers
// own the Session values it hands out; Store itself only owns the
// database connection.
type Store struct {
	db *sql.DB
}

// Open creates or migrates the SQLite database at path and returns a
// Store ready to begin sessions.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: open %s: %w", path, err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("sessionlog: migrations sub-filesystem: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("sessionlog: iofs source: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sessionlog: sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("sessionlog: migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("sessionlog: migrate up: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Session records the frames and stylus events of a single device
// session, identified by a fresh UUID.
type Session struct {
	id       uuid.UUID
	db       *sql.DB
	seqFrame int64
	seqStyle int64
}

// NewSession inserts a session row and returns a Session ready to
// record frames and stylus samples under it.
func (s *Store) NewSession() (*Session, error) {
	id := uuid.New()
	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		id.String(), time.Now().UnixNano(),
	); err != nil {
		return nil, fmt.Errorf("sessionlog: create session: %w", err)
	}
	diagf("opened session %s", id)
	return &Session{id: id, db: s.db}, nil
}

// ID returns the session's identifier.
func (sess *Session) ID() uuid.UUID {
	return sess.id
}

// RecordFrame appends a stabilized contact frame to the session log.
func (sess *Session) RecordFrame(frame contact.Frame) error {
	sess.seqFrame++
	_, err := sess.db.Exec(
		`INSERT INTO contact_frames (session_id, seq, recorded_at, payload) VALUES (?, ?, ?, ?)`,
		sess.id.String(), sess.seqFrame, time.Now().UnixNano(), EncodeFrame(frame),
	)
	if err != nil {
		opsf("session %s: record frame %d failed: %v", sess.id, sess.seqFrame, err)
		return fmt.Errorf("sessionlog: record frame: %w", err)
	}
	tracef("session %s: recorded frame %d (%d contacts)", sess.id, sess.seqFrame, len(frame))
	return nil
}

// RecordStylus appends a stylus sample to the session log.
func (sess *Session) RecordStylus(ev decoder.StylusEvent) error {
	sess.seqStyle++
	_, err := sess.db.Exec(
		`INSERT INTO stylus_events (session_id, seq, recorded_at, payload) VALUES (?, ?, ?, ?)`,
		sess.id.String(), sess.seqStyle, time.Now().UnixNano(), EncodeStylus(ev),
	)
	if err != nil {
		opsf("session %s: record stylus %d failed: %v", sess.id, sess.seqStyle, err)
		return fmt.Errorf("sessionlog: record stylus: %w", err)
	}
	return nil
}

// ReplayFrames returns every recorded contact frame for sessionID, in
// capture order.
func (s *Store) ReplayFrames(sessionID uuid.UUID) ([]contact.Frame, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM contact_frames WHERE session_id = ? ORDER BY seq ASC`,
		sessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: query frames: %w", err)
	}
	defer rows.Close()

	var frames []contact.Frame
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sessionlog: scan frame: %w", err)
		}
		frame, err := DecodeFrame(payload)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}
