package wire

import "github.com/iptsd/iptsd-core/internal/reader"

// DataHeader is the outer `data` record, 64 bytes.
type DataHeader struct {
	Type   uint32
	Size   uint32
	Buffer uint32
}

// ReadDataHeader decodes a DataHeader and skips its reserved tail.
func ReadDataHeader(r *reader.Reader) (DataHeader, error) {
	var h DataHeader
	var err error
	if h.Type, err = r.U32(); err != nil {
		return h, err
	}
	if h.Size, err = r.U32(); err != nil {
		return h, err
	}
	if h.Buffer, err = r.U32(); err != nil {
		return h, err
	}
	if err := r.Skip(52); err != nil {
		return h, err
	}
	return h, nil
}

// PayloadHeader is the `payload` record, 12 bytes.
type PayloadHeader struct {
	Counter uint32
	Frames  uint32
}

// ReadPayloadHeader decodes a PayloadHeader and skips its reserved tail.
func ReadPayloadHeader(r *reader.Reader) (PayloadHeader, error) {
	var h PayloadHeader
	var err error
	if h.Counter, err = r.U32(); err != nil {
		return h, err
	}
	if h.Frames, err = r.U32(); err != nil {
		return h, err
	}
	if err := r.Skip(4); err != nil {
		return h, err
	}
	return h, nil
}

// PayloadFrameHeader is the `payload_frame` record, 16 bytes.
type PayloadFrameHeader struct {
	Index uint16
	Type  uint16
	Size  uint32
}

// ReadPayloadFrameHeader decodes a PayloadFrameHeader and skips its reserved tail.
func ReadPayloadFrameHeader(r *reader.Reader) (PayloadFrameHeader, error) {
	var h PayloadFrameHeader
	var err error
	if h.Index, err = r.U16(); err != nil {
		return h, err
	}
	if h.Type, err = r.U16(); err != nil {
		return h, err
	}
	if h.Size, err = r.U32(); err != nil {
		return h, err
	}
	if err := r.Skip(8); err != nil {
		return h, err
	}
	return h, nil
}

// ReportHeader is the `report` record, 4 bytes.
type ReportHeader struct {
	Type uint16
	Size uint16
}

// ReadReportHeader decodes a ReportHeader.
func ReadReportHeader(r *reader.Reader) (ReportHeader, error) {
	var h ReportHeader
	var err error
	if h.Type, err = r.U16(); err != nil {
		return h, err
	}
	if h.Size, err = r.U16(); err != nil {
		return h, err
	}
	return h, nil
}

// StylusReportSerial is the `stylus_report_serial` record, 8 bytes.
// It precedes a run of Elements stylus data records inside a STYLUS_V1 or
// STYLUS_V2 report body.
type StylusReportSerial struct {
	Elements uint8
	Serial   uint32
}

// ReadStylusReportSerial decodes a StylusReportSerial and skips its reserved field.
func ReadStylusReportSerial(r *reader.Reader) (StylusReportSerial, error) {
	var h StylusReportSerial
	var err error
	if h.Elements, err = r.U8(); err != nil {
		return h, err
	}
	if err := r.Skip(3); err != nil {
		return h, err
	}
	if h.Serial, err = r.U32(); err != nil {
		return h, err
	}
	return h, nil
}

// StylusDataV2 is the `stylus_data_v2` record, 16 bytes.
type StylusDataV2 struct {
	Timestamp uint16
	Mode      uint16
	X         uint16
	Y         uint16
	Pressure  uint16
	Altitude  uint16
	Azimuth   uint16
}

// ReadStylusDataV2 decodes a StylusDataV2 and skips its reserved tail.
func ReadStylusDataV2(r *reader.Reader) (StylusDataV2, error) {
	var h StylusDataV2
	var err error
	if h.Timestamp, err = r.U16(); err != nil {
		return h, err
	}
	if h.Mode, err = r.U16(); err != nil {
		return h, err
	}
	if h.X, err = r.U16(); err != nil {
		return h, err
	}
	if h.Y, err = r.U16(); err != nil {
		return h, err
	}
	if h.Pressure, err = r.U16(); err != nil {
		return h, err
	}
	if h.Altitude, err = r.U16(); err != nil {
		return h, err
	}
	if h.Azimuth, err = r.U16(); err != nil {
		return h, err
	}
	if err := r.Skip(2); err != nil {
		return h, err
	}
	return h, nil
}

// StylusDataV1 is the `stylus_data_v1` record, 12 bytes.
// Pressure is reported at a quarter of the v2 scale; callers must
// multiply by 4 before emitting to the Event Sink.
type StylusDataV1 struct {
	Mode     uint8
	X        uint16
	Y        uint16
	Pressure uint16
}

// ReadStylusDataV1 decodes a StylusDataV1, skipping its reserved fields.
func ReadStylusDataV1(r *reader.Reader) (StylusDataV1, error) {
	var h StylusDataV1
	var err error
	if err := r.Skip(4); err != nil {
		return h, err
	}
	if h.Mode, err = r.U8(); err != nil {
		return h, err
	}
	if h.X, err = r.U16(); err != nil {
		return h, err
	}
	if h.Y, err = r.U16(); err != nil {
		return h, err
	}
	if h.Pressure, err = r.U16(); err != nil {
		return h, err
	}
	if err := r.Skip(1); err != nil {
		return h, err
	}
	return h, nil
}

// HeatmapDim is the `heatmap_dim` record.
type HeatmapDim struct {
	Height uint8
	Width  uint8
	YMin   uint8
	YMax   uint8
	XMin   uint8
	XMax   uint8
	ZMin   uint8
	ZMax   uint8
}

// ReadHeatmapDim decodes a HeatmapDim.
func ReadHeatmapDim(r *reader.Reader) (HeatmapDim, error) {
	var h HeatmapDim
	var err error
	if h.Height, err = r.U8(); err != nil {
		return h, err
	}
	if h.Width, err = r.U8(); err != nil {
		return h, err
	}
	if h.YMin, err = r.U8(); err != nil {
		return h, err
	}
	if h.YMax, err = r.U8(); err != nil {
		return h, err
	}
	if h.XMin, err = r.U8(); err != nil {
		return h, err
	}
	if h.XMax, err = r.U8(); err != nil {
		return h, err
	}
	if h.ZMin, err = r.U8(); err != nil {
		return h, err
	}
	if h.ZMax, err = r.U8(); err != nil {
		return h, err
	}
	return h, nil
}

// HeatmapTimestamp is the `heatmap_timestamp` record.
type HeatmapTimestamp struct {
	Count     uint16
	Timestamp uint32
}

// ReadHeatmapTimestamp decodes a HeatmapTimestamp, skipping its reserved head.
func ReadHeatmapTimestamp(r *reader.Reader) (HeatmapTimestamp, error) {
	var h HeatmapTimestamp
	var err error
	if err := r.Skip(2); err != nil {
		return h, err
	}
	if h.Count, err = r.U16(); err != nil {
		return h, err
	}
	if h.Timestamp, err = r.U32(); err != nil {
		return h, err
	}
	return h, nil
}
