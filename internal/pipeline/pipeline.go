package pipeline

import (
	"fmt"

	"github.com/iptsd/iptsd-core/internal/config"
	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
	"github.com/iptsd/iptsd-core/internal/heatmap"
	"github.com/iptsd/iptsd-core/internal/stabilizer"
	"github.com/iptsd/iptsd-core/internal/tracker"
)

// Pipeline drives one raw device buffer at a time through decoding,
// detection, tracking, and stabilization. It is single-threaded
// cooperative: ProcessBuffer must run to completion before the next
// buffer is submitted, and holds no lock of its own.
type Pipeline struct {
	cfg      *config.Config
	decoder  *decoder.Decoder
	detector *heatmap.Detector
	tracker  *tracker.Tracker
	stable   *stabilizer.Stabilizer

	prev contact.Frame
}

// New builds a Pipeline sized for a width x height heatmap, with every
// stage's tunables sourced from cfg.
func New(cfg *config.Config, width, height int) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		decoder: decoder.New(width, height),
		detector: heatmap.NewDetector(
			cfg.GetActivationThreshold(),
			cfg.GetClusterMembershipThreshold(),
			cfg.GetMinClusterSize(),
		),
		tracker: tracker.New(cfg.GetMaxMovementPerFrame()),
		stable:  stabilizer.New(cfg),
	}
}

// ProcessBuffer decodes buf, routing stylus samples to sink as they are
// found. If buf carried updated heatmap data, the pipeline also runs
// detection, tracking, and stabilization, and emits the resulting
// contact frame to sink. Buffers that carry only stylus data, or no
// recognized payload at all, complete without emitting contacts.
func (p *Pipeline) ProcessBuffer(buf []byte, sink EventSink) error {
	hm, updated, err := p.decoder.Decode(buf, sink)
	if err != nil {
		return fmt.Errorf("pipeline: decode buffer: %w", err)
	}
	if !updated {
		return nil
	}

	blobs := p.detector.Detect(hm)
	tracked := p.tracker.Track(blobs, p.prev, p.cfg.GetTemporalWindow())
	stabilized := p.stable.Stabilize(tracked)
	p.prev = stabilized.Clone()

	diagf("processed buffer: %d blobs, %d contacts", len(blobs), len(stabilized))

	out := stabilized.Normalize(hm.Width, hm.Height, p.cfg.GetOrientationNormalized())
	sink.EmitContacts(out)
	return nil
}

// Reset clears all per-session state: the tracker's identity history and
// the stabilizer's frame history. Use this after a device reconnect, not
// between ordinary frames.
func (p *Pipeline) Reset() {
	p.stable.Reset()
	p.tracker = tracker.New(p.tracker.MaxMovement)
	p.prev = nil
}

// Run drives source in a blocking loop, calling ProcessBuffer for every
// frame it delivers, until source.ReadFrame returns an error.
func (p *Pipeline) Run(source DeviceSource, sink EventSink) error {
	buf := make([]byte, source.MaxBufferSize())
	for {
		n, err := source.ReadFrame(buf)
		if err != nil {
			return fmt.Errorf("pipeline: device read: %w", err)
		}
		if perr := p.ProcessBuffer(buf[:n], sink); perr != nil {
			opsf("buffer processing error, skipping frame: %v", perr)
		}
	}
}
