package decoder

// StylusEvent carries one decoded stylus sample, in device units.
type StylusEvent struct {
	X, Y         uint16
	Pressure     uint16
	TiltX, TiltY int32
	Timestamp    uint16
	Serial       uint32
	Proximity    bool
	Contact      bool
	Button       bool
	Rubber       bool
}

// StylusSink receives stylus samples as the frame decoder walks a
// STYLUS payload frame. The pipeline's event sink satisfies this
// implicitly; the decoder depends only on this narrow interface so it
// never needs to import the pipeline package.
type StylusSink interface {
	EmitStylus(StylusEvent)
}
