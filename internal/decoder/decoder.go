package decoder

import (
	"math"

	"github.com/iptsd/iptsd-core/internal/heatmap"
	"github.com/iptsd/iptsd-core/internal/reader"
	"github.com/iptsd/iptsd-core/internal/wire"
)

// tiltScale converts a raw altitude/azimuth unit into radians: the device
// reports hundredths of a degree, so 18000 units make a half turn (π).
const tiltScale = math.Pi / 18000

// Decoder walks one raw device buffer per Decode call. It owns the
// Heatmap buffer so callers never allocate on the hot path; the
// returned Heatmap aliases that buffer and is only valid until the next
// Decode call.
type Decoder struct {
	hm *heatmap.Heatmap
}

// New builds a Decoder with a Heatmap pre-sized to width x height.
func New(width, height int) *Decoder {
	return &Decoder{hm: heatmap.New(width, height)}
}

// Decode walks buf's data/payload/payload_frame/report hierarchy. It
// returns the Decoder's Heatmap and true when a HEATMAP report updated
// it during this call; heatmapUpdated is false when buf carried no
// heatmap data (e.g. a stylus-only buffer).
func (d *Decoder) Decode(buf []byte, sink StylusSink) (hm *heatmap.Heatmap, heatmapUpdated bool, err error) {
	r := reader.New(buf)

	dh, err := wire.ReadDataHeader(r)
	if err != nil {
		return nil, false, err
	}
	if dh.Type != wire.DataPayload {
		diagf("skipping non-payload data record, type=%d", dh.Type)
		return nil, false, nil
	}

	ph, err := wire.ReadPayloadHeader(r)
	if err != nil {
		return nil, false, err
	}

	for i := uint32(0); i < ph.Frames; i++ {
		pf, err := wire.ReadPayloadFrameHeader(r)
		if err != nil {
			opsf("payload frame header %d/%d malformed: %v, aborting buffer", i, ph.Frames, err)
			return d.hm, heatmapUpdated, nil
		}

		frame, err := r.Sub(int(pf.Size))
		if err != nil {
			opsf("payload frame %d advertises size %d beyond buffer, aborting buffer", i, pf.Size)
			return d.hm, heatmapUpdated, nil
		}

		switch pf.Type {
		case wire.FrameStylus:
			if err := d.decodeStylusFrame(frame, sink); err != nil {
				opsf("stylus frame %d decode error, discarding remainder: %v", i, err)
			}
		case wire.FrameHeatmap:
			updated, err := d.decodeHeatmapFrame(frame)
			if err != nil {
				opsf("heatmap frame %d decode error, discarding remainder: %v", i, err)
			}
			heatmapUpdated = heatmapUpdated || updated
		default:
			diagf("skipping unknown payload frame type 0x%x, size %d", pf.Type, pf.Size)
		}
	}

	return d.hm, heatmapUpdated, nil
}

func (d *Decoder) decodeStylusFrame(r *reader.Reader, sink StylusSink) error {
	for r.Size() > 0 {
		rh, err := wire.ReadReportHeader(r)
		if err != nil {
			return err
		}
		report, err := r.Sub(int(rh.Size))
		if err != nil {
			return err
		}

		switch rh.Type {
		case wire.ReportStylusV1:
			if err := d.decodeStylusV1(report, sink); err != nil {
				opsf("stylus v1 report decode error: %v", err)
			}
		case wire.ReportStylusV2:
			if err := d.decodeStylusV2(report, sink); err != nil {
				opsf("stylus v2 report decode error: %v", err)
			}
		default:
			tracef("skipping unknown stylus report type 0x%x", rh.Type)
		}
	}
	return nil
}

func (d *Decoder) decodeStylusV1(r *reader.Reader, sink StylusSink) error {
	hdr, err := wire.ReadStylusReportSerial(r)
	if err != nil {
		return err
	}
	for i := uint8(0); i < hdr.Elements; i++ {
		v, err := wire.ReadStylusDataV1(r)
		if err != nil {
			return err
		}
		sink.EmitStylus(StylusEvent{
			X:         scaleStylusAxis(v.X, wire.DeviceMaxX),
			Y:         scaleStylusAxis(v.Y, wire.DeviceMaxY),
			Pressure:  v.Pressure * 4,
			Serial:    hdr.Serial,
			Proximity: uint16(v.Mode)&wire.StylusModeProximity != 0,
			Contact:   uint16(v.Mode)&wire.StylusModeContact != 0,
			Button:    uint16(v.Mode)&wire.StylusModeButton != 0,
			Rubber:    uint16(v.Mode)&wire.StylusModeRubber != 0,
		})
	}
	return nil
}

func (d *Decoder) decodeStylusV2(r *reader.Reader, sink StylusSink) error {
	hdr, err := wire.ReadStylusReportSerial(r)
	if err != nil {
		return err
	}
	for i := uint8(0); i < hdr.Elements; i++ {
		v, err := wire.ReadStylusDataV2(r)
		if err != nil {
			return err
		}
		tx, ty := stylusTilt(v.Altitude, v.Azimuth)
		sink.EmitStylus(StylusEvent{
			X:         scaleStylusAxis(v.X, wire.DeviceMaxX),
			Y:         scaleStylusAxis(v.Y, wire.DeviceMaxY),
			Pressure:  v.Pressure,
			TiltX:     tx,
			TiltY:     ty,
			Timestamp: v.Timestamp,
			Serial:    hdr.Serial,
			Proximity: v.Mode&wire.StylusModeProximity != 0,
			Contact:   v.Mode&wire.StylusModeContact != 0,
			Button:    v.Mode&wire.StylusModeButton != 0,
			Rubber:    v.Mode&wire.StylusModeRubber != 0,
		})
	}
	return nil
}

// scaleStylusAxis rescales a raw coordinate from the device's internal
// 15-bit single-touch resolution into its published coordinate space.
func scaleStylusAxis(raw uint16, deviceMax int) uint16 {
	return uint16(int64(raw) * int64(deviceMax) / wire.SingleTouchMax)
}

// stylusTilt converts altitude/azimuth into tilt-X/tilt-Y axes. Both are
// zero when the stylus reports no altitude (hovering flat or out of
// range).
func stylusTilt(altitude, azimuth uint16) (int32, int32) {
	if altitude == 0 {
		return 0, 0
	}
	alt := float64(altitude) * tiltScale
	azm := float64(azimuth) * tiltScale

	sinAlt, cosAlt := math.Sincos(alt)
	sinAzm, cosAzm := math.Sincos(azm)

	atanX := math.Atan2(cosAlt, sinAlt*cosAzm)
	atanY := math.Atan2(cosAlt, sinAlt*sinAzm)

	tx := 9000 - atanX*4500/(math.Pi/4)
	ty := atanY*4500/(math.Pi/4) - 9000
	return int32(tx), int32(ty)
}

func (d *Decoder) decodeHeatmapFrame(r *reader.Reader) (updated bool, err error) {
	for r.Size() > 0 {
		rh, err := wire.ReadReportHeader(r)
		if err != nil {
			return updated, err
		}
		report, err := r.Sub(int(rh.Size))
		if err != nil {
			return updated, err
		}

		switch rh.Type {
		case wire.ReportHeatmapDim:
			dim, err := wire.ReadHeatmapDim(report)
			if err != nil {
				opsf("heatmap_dim decode error: %v", err)
				continue
			}
			d.hm.Resize(int(dim.Width), int(dim.Height))
			d.hm.Meta.YMin, d.hm.Meta.YMax = dim.YMin, dim.YMax
			d.hm.Meta.XMin, d.hm.Meta.XMax = dim.XMin, dim.XMax
			d.hm.Meta.ZMin, d.hm.Meta.ZMax = dim.ZMin, dim.ZMax
		case wire.ReportHeatmapTimestamp:
			ts, err := wire.ReadHeatmapTimestamp(report)
			if err != nil {
				opsf("heatmap_timestamp decode error: %v", err)
				continue
			}
			d.hm.Meta.Count = ts.Count
			d.hm.Meta.TimestampUnits = ts.Timestamp
		case wire.ReportHeatmap:
			raw, err := report.Bytes(report.Size())
			if err != nil {
				opsf("heatmap pixel report decode error: %v", err)
				continue
			}
			d.hm.SetFromBytes(raw, d.hm.Meta.ZMin, d.hm.Meta.ZMax)
			updated = true
		default:
			tracef("skipping unknown heatmap report type 0x%x", rh.Type)
		}
	}
	return updated, nil
}
