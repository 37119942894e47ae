package wire

// Outer data-record types. Only Payload is processed by the
// frame decoder; the others are recognised but silently skipped.
const (
	DataPayload      uint32 = 0
	DataError        uint32 = 1
	DataVendor       uint32 = 2
	DataHIDReport    uint32 = 3
	DataGetFeatures  uint32 = 4
)

// Payload-frame types.
const (
	FrameStylus  uint16 = 6
	FrameHeatmap uint16 = 8
)

// Report types.
const (
	ReportHeatmapTimestamp uint16 = 0x400
	ReportHeatmapDim       uint16 = 0x403
	ReportHeatmap          uint16 = 0x425
	ReportStylusV1         uint16 = 0x410
	ReportStylusV2         uint16 = 0x460
)

// Stylus mode bitmask.
const (
	StylusModeProximity uint16 = 1 << 0
	StylusModeContact   uint16 = 1 << 1
	StylusModeButton    uint16 = 1 << 2
	StylusModeRubber    uint16 = 1 << 3
)

// Device geometry constants.
const (
	DeviceMaxX        = 9600
	DeviceMaxY        = 7200
	DeviceMaxDiagonal = 12000
	SingleTouchMax    = 1 << 15
)

// Wire record sizes in bytes. The decoder does not consult these; it
// reads each record field by field and takes sub-span lengths from the
// size fields in the record headers.
const (
	SizeData                = 64
	SizePayload             = 12
	SizePayloadFrame        = 16
	SizeReport              = 4
	SizeStylusReportSerial  = 8
	SizeStylusDataV2        = 16
	SizeStylusDataV1        = 12
	SizeHeatmapDim          = 8
	SizeHeatmapTimestamp    = 8
)
