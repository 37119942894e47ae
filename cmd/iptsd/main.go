// Command iptsd reads raw buffers from a touch digitizer device,
// decodes them into stylus samples and stabilized contact frames, and
// optionally streams or records that output.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/iptsd/iptsd-core/internal/config"
	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
	"github.com/iptsd/iptsd-core/internal/device"
	"github.com/iptsd/iptsd-core/internal/heatmap"
	"github.com/iptsd/iptsd-core/internal/pipeline"
	"github.com/iptsd/iptsd-core/internal/ptsapi"
	"github.com/iptsd/iptsd-core/internal/ptsrpc"
	"github.com/iptsd/iptsd-core/internal/reader"
	"github.com/iptsd/iptsd-core/internal/sessionlog"
	"github.com/iptsd/iptsd-core/internal/stabilizer"
	"github.com/iptsd/iptsd-core/internal/tracker"
	"github.com/iptsd/iptsd-core/internal/version"
)

var (
	showVersion    = flag.Bool("version", false, "print version information and exit")
	devicePath     = flag.String("device", "/dev/ipts0", "path to the touch digitizer character device")
	serialPath     = flag.String("serial", "", "if set, read from this serial port instead of -device (bench/replay mode)")
	configPath     = flag.String("config", "", "path to a JSON tuning configuration file; empty uses built-in defaults")
	heatmapWidth   = flag.Int("heatmap-width", 64, "initial heatmap width in cells, resized on first heatmap_dim report")
	heatmapHeight  = flag.Int("heatmap-height", 44, "initial heatmap height in cells, resized on first heatmap_dim report")
	maxBufferSize  = flag.Int("max-buffer-size", 1 << 16, "largest raw device buffer the reader will accept")
	apiListen      = flag.String("api-listen", "", "if set, serve the HTTP status API on this address")
	grpcListen     = flag.String("grpc-listen", "", "if set, serve the contact/stylus gRPC stream on this address")
	sessionDBPath  = flag.String("session-db", "", "if set, record every frame and stylus sample to this SQLite database")
)

// multiSink fans a single pipeline.EventSink's calls out to several
// sinks, so the daemon can serve the HTTP API, the gRPC stream, and the
// session log from the same pipeline without those packages knowing
// about each other.
type multiSink struct {
	sinks []pipeline.EventSink
}

func (m multiSink) EmitContacts(frame contact.Frame) {
	for _, s := range m.sinks {
		s.EmitContacts(frame)
	}
}

func (m multiSink) EmitStylus(ev decoder.StylusEvent) {
	for _, s := range m.sinks {
		s.EmitStylus(ev)
	}
}

type sessionSink struct {
	sess *sessionlog.Session
}

func (s sessionSink) EmitContacts(frame contact.Frame) {
	if err := s.sess.RecordFrame(frame); err != nil {
		log.Printf("sessionlog: %v", err)
	}
}

func (s sessionSink) EmitStylus(ev decoder.StylusEvent) {
	if err := s.sess.RecordStylus(ev); err != nil {
		log.Printf("sessionlog: %v", err)
	}
}

func openLogWriter(envVar, fallback string, logFiles *[]*os.File) io.Writer {
	path := os.Getenv(envVar)
	if path == "" {
		path = fallback
	}
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("warning: create log directory for %s: %v", path, err)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("warning: open log %s: %v", path, err)
		return nil
	}
	*logFiles = append(*logFiles, f)
	return f
}

func setupLogging() []*os.File {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(os.Stdout)

	var logFiles []*os.File
	fallback := os.Getenv("IPTSD_DEBUG_LOG")
	ops := openLogWriter("IPTSD_OPS_LOG", fallback, &logFiles)
	diag := openLogWriter("IPTSD_DIAG_LOG", fallback, &logFiles)
	trace := openLogWriter("IPTSD_TRACE_LOG", fallback, &logFiles)

	reader.SetLogWriters(ops, diag, trace)
	heatmap.SetLogWriters(ops, diag, trace)
	tracker.SetLogWriters(ops, diag, trace)
	stabilizer.SetLogWriters(ops, diag, trace)
	decoder.SetLogWriters(ops, diag, trace)
	pipeline.SetLogWriters(ops, diag, trace)
	sessionlog.SetLogWriters(ops, diag, trace)
	ptsrpc.SetLogWriters(ops, diag, trace)
	ptsapi.SetLogWriters(ops, diag, trace)

	return logFiles
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("iptsd %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	logFiles := setupLogging()
	defer func() {
		for _, f := range logFiles {
			f.Close()
		}
	}()

	cfg := config.EmptyConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var source pipeline.DeviceSource
	if *serialPath != "" {
		sd, err := device.OpenSerial(*serialPath, nil, *maxBufferSize)
		if err != nil {
			log.Fatalf("open serial device: %v", err)
		}
		defer sd.Close()
		source = sd
	} else {
		fd, err := device.OpenFile(*devicePath, *maxBufferSize)
		if err != nil {
			log.Fatalf("open device: %v", err)
		}
		defer fd.Close()
		source = fd
	}

	sinks := []pipeline.EventSink{}

	var rpcServer *ptsrpc.Server
	if *grpcListen != "" {
		rpcServer = ptsrpc.NewServer()
		sinks = append(sinks, rpcServer)
	}

	var apiServer *ptsapi.Server
	if *apiListen != "" {
		apiServer = ptsapi.NewServer(cfg)
		sinks = append(sinks, apiServer)
	}

	var store *sessionlog.Store
	if *sessionDBPath != "" {
		var err error
		store, err = sessionlog.Open(*sessionDBPath)
		if err != nil {
			log.Fatalf("open session log: %v", err)
		}
		defer store.Close()

		sess, err := store.NewSession()
		if err != nil {
			log.Fatalf("start session: %v", err)
		}
		sinks = append(sinks, sessionSink{sess: sess})
	}

	if len(sinks) == 0 {
		log.Fatalf("no sink configured: pass at least one of -api-listen, -grpc-listen, -session-db")
	}

	p := pipeline.New(cfg, *heatmapWidth, *heatmapHeight)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	if rpcServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rpcServer.Serve(*grpcListen); err != nil {
				log.Printf("gRPC server stopped: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			rpcServer.Stop()
		}()
	}

	if apiServer != nil {
		httpSrv := &http.Server{Addr: *apiListen, Handler: apiServer.Router()}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("HTTP API server stopped: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			httpSrv.Close()
		}()
	}

	sink := multiSink{sinks: sinks}

	wg.Add(1)
	go func() {
		defer wg.Done()
		runLoop(ctx, p, source, sink)
	}()

	wg.Wait()
}

func runLoop(ctx context.Context, p *pipeline.Pipeline, source pipeline.DeviceSource, sink pipeline.EventSink) {
	buf := make([]byte, source.MaxBufferSize())
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := source.ReadFrame(buf)
		if err != nil {
			log.Printf("device read error: %v", err)
			return
		}
		if err := p.ProcessBuffer(buf[:n], sink); err != nil {
			log.Printf("%v", fmt.Errorf("process buffer: %w", err))
		}
	}
}
