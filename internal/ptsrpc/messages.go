package ptsrpc

import (
	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
)

// StreamRequest is sent once by the client to open either stream. It
// carries no filtering options today; it exists so the RPC shape can
// grow request fields without breaking wire compatibility.
type StreamRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// ContactWire is the over-the-wire representation of a contact.Contact.
type ContactWire struct {
	Index       int     `json:"index"`
	HasIndex    bool    `json:"has_index"`
	MeanX       float64 `json:"mean_x"`
	MeanY       float64 `json:"mean_y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Orientation float64 `json:"orientation"`
	Stable      bool    `json:"stable"`
	Valid       bool    `json:"valid"`
}

func contactToWire(c contact.Contact) ContactWire {
	return ContactWire{
		Index:       c.Index,
		HasIndex:    c.HasIndex,
		MeanX:       c.Mean.X,
		MeanY:       c.Mean.Y,
		Width:       c.SizeVal.Width,
		Height:      c.SizeVal.Height,
		Orientation: c.Orientation,
		Stable:      c.Stable,
		Valid:       c.Valid,
	}
}

// ContactFrameMessage is one server-streamed message of the
// StreamContacts RPC: a full stabilized contact frame.
type ContactFrameMessage struct {
	Seq      int64         `json:"seq"`
	Contacts []ContactWire `json:"contacts"`
}

func frameToMessage(seq int64, frame contact.Frame) ContactFrameMessage {
	wire := make([]ContactWire, len(frame))
	for i, c := range frame {
		wire[i] = contactToWire(c)
	}
	return ContactFrameMessage{Seq: seq, Contacts: wire}
}

// StylusWire is the over-the-wire representation of a decoder.StylusEvent.
type StylusWire struct {
	X         uint16 `json:"x"`
	Y         uint16 `json:"y"`
	Pressure  uint16 `json:"pressure"`
	TiltX     int32  `json:"tilt_x"`
	TiltY     int32  `json:"tilt_y"`
	Timestamp uint16 `json:"timestamp"`
	Serial    uint32 `json:"serial,omitempty"`
	Proximity bool   `json:"proximity"`
	Contact   bool   `json:"contact"`
	Button    bool   `json:"button"`
	Rubber    bool   `json:"rubber"`
}

func stylusToWire(ev decoder.StylusEvent) StylusWire {
	return StylusWire{
		X:         ev.X,
		Y:         ev.Y,
		Pressure:  ev.Pressure,
		TiltX:     ev.TiltX,
		TiltY:     ev.TiltY,
		Timestamp: ev.Timestamp,
		Serial:    ev.Serial,
		Proximity: ev.Proximity,
		Contact:   ev.Contact,
		Button:    ev.Button,
		Rubber:    ev.Rubber,
	}
}

// StylusEventMessage is one server-streamed message of the
// StreamStylus RPC.
type StylusEventMessage struct {
	Seq   int64      `json:"seq"`
	Event StylusWire `json:"event"`
}

func eventToMessage(seq int64, ev decoder.StylusEvent) StylusEventMessage {
	return StylusEventMessage{Seq: seq, Event: stylusToWire(ev)}
}
