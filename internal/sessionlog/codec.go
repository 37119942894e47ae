package sessionlog

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
)

// Field numbers for the hand-rolled wire encoding below. There is no
// .proto source and no generated code: protowire's varint/tag helpers
// give a compact, versionable binary format without requiring the
// protoc toolchain to produce a contact.Contact message type.
const (
	fieldContactIndex       = 1
	fieldContactHasIndex    = 2
	fieldContactMeanX       = 3
	fieldContactMeanY       = 4
	fieldContactWidth       = 5
	fieldContactHeight      = 6
	fieldContactOrientation = 7
	fieldContactStable      = 8
	fieldContactValid       = 9

	fieldFrameContact = 1 // repeated, length-delimited

	fieldStylusX         = 1
	fieldStylusY         = 2
	fieldStylusPressure  = 3
	fieldStylusTiltX     = 4
	fieldStylusTiltY     = 5
	fieldStylusTimestamp = 6
	fieldStylusProximity = 7
	fieldStylusContact   = 8
	fieldStylusButton    = 9
	fieldStylusRubber    = 10
	fieldStylusSerial    = 11
)

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// EncodeContact serializes a single Contact as a sequence of tagged
// fields.
func EncodeContact(c contact.Contact) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldContactIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(c.Index)))
	b = protowire.AppendTag(b, fieldContactHasIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToUint64(c.HasIndex))
	b = protowire.AppendTag(b, fieldContactMeanX, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(c.Mean.X))
	b = protowire.AppendTag(b, fieldContactMeanY, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(c.Mean.Y))
	b = protowire.AppendTag(b, fieldContactWidth, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(c.SizeVal.Width))
	b = protowire.AppendTag(b, fieldContactHeight, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(c.SizeVal.Height))
	b = protowire.AppendTag(b, fieldContactOrientation, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(c.Orientation))
	b = protowire.AppendTag(b, fieldContactStable, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToUint64(c.Stable))
	b = protowire.AppendTag(b, fieldContactValid, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToUint64(c.Valid))
	return b
}

// DecodeContact is the inverse of EncodeContact. Unknown fields are
// skipped so the format can grow new fields without breaking readers
// of older records.
func DecodeContact(raw []byte) (contact.Contact, error) {
	var c contact.Contact
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return c, fmt.Errorf("sessionlog: malformed contact tag: %w", protowire.ParseError(n))
		}
		raw = raw[n:]

		switch {
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return c, fmt.Errorf("sessionlog: malformed contact varint: %w", protowire.ParseError(n))
			}
			raw = raw[n:]
			switch num {
			case fieldContactIndex:
				c.Index = int(int64(v))
			case fieldContactHasIndex:
				c.HasIndex = v != 0
			case fieldContactStable:
				c.Stable = v != 0
			case fieldContactValid:
				c.Valid = v != 0
			}
		case typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(raw)
			if n < 0 {
				return c, fmt.Errorf("sessionlog: malformed contact fixed64: %w", protowire.ParseError(n))
			}
			raw = raw[n:]
			f := math.Float64frombits(v)
			switch num {
			case fieldContactMeanX:
				c.Mean.X = f
			case fieldContactMeanY:
				c.Mean.Y = f
			case fieldContactWidth:
				c.SizeVal.Width = f
			case fieldContactHeight:
				c.SizeVal.Height = f
			case fieldContactOrientation:
				c.Orientation = f
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return c, fmt.Errorf("sessionlog: malformed contact field: %w", protowire.ParseError(n))
			}
			raw = raw[n:]
		}
	}
	return c, nil
}

// EncodeFrame serializes an ordered contact.Frame as a sequence of
// length-delimited EncodeContact records.
func EncodeFrame(frame contact.Frame) []byte {
	var b []byte
	for _, c := range frame {
		b = protowire.AppendTag(b, fieldFrameContact, protowire.BytesType)
		b = protowire.AppendBytes(b, EncodeContact(c))
	}
	return b
}

// DecodeFrame is the inverse of EncodeFrame.
func DecodeFrame(raw []byte) (contact.Frame, error) {
	var frame contact.Frame
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return nil, fmt.Errorf("sessionlog: malformed frame tag: %w", protowire.ParseError(n))
		}
		raw = raw[n:]
		if typ != protowire.BytesType || num != fieldFrameContact {
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return nil, fmt.Errorf("sessionlog: malformed frame field: %w", protowire.ParseError(n))
			}
			raw = raw[n:]
			continue
		}
		cb, n := protowire.ConsumeBytes(raw)
		if n < 0 {
			return nil, fmt.Errorf("sessionlog: malformed frame contact bytes: %w", protowire.ParseError(n))
		}
		raw = raw[n:]
		c, err := DecodeContact(cb)
		if err != nil {
			return nil, err
		}
		frame = append(frame, c)
	}
	return frame, nil
}

// EncodeStylus serializes a decoder.StylusEvent.
func EncodeStylus(ev decoder.StylusEvent) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldStylusX, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(ev.X))
	b = protowire.AppendTag(b, fieldStylusY, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(ev.Y))
	b = protowire.AppendTag(b, fieldStylusPressure, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(ev.Pressure))
	b = protowire.AppendTag(b, fieldStylusTiltX, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(ev.TiltX)))
	b = protowire.AppendTag(b, fieldStylusTiltY, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(ev.TiltY)))
	b = protowire.AppendTag(b, fieldStylusTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(ev.Timestamp))
	b = protowire.AppendTag(b, fieldStylusProximity, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToUint64(ev.Proximity))
	b = protowire.AppendTag(b, fieldStylusContact, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToUint64(ev.Contact))
	b = protowire.AppendTag(b, fieldStylusButton, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToUint64(ev.Button))
	b = protowire.AppendTag(b, fieldStylusRubber, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToUint64(ev.Rubber))
	b = protowire.AppendTag(b, fieldStylusSerial, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(ev.Serial))
	return b
}

// DecodeStylus is the inverse of EncodeStylus.
func DecodeStylus(raw []byte) (decoder.StylusEvent, error) {
	var ev decoder.StylusEvent
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return ev, fmt.Errorf("sessionlog: malformed stylus tag: %w", protowire.ParseError(n))
		}
		raw = raw[n:]
		if typ != protowire.VarintType {
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return ev, fmt.Errorf("sessionlog: malformed stylus field: %w", protowire.ParseError(n))
			}
			raw = raw[n:]
			continue
		}
		v, n := protowire.ConsumeVarint(raw)
		if n < 0 {
			return ev, fmt.Errorf("sessionlog: malformed stylus varint: %w", protowire.ParseError(n))
		}
		raw = raw[n:]
		switch num {
		case fieldStylusX:
			ev.X = uint16(v)
		case fieldStylusY:
			ev.Y = uint16(v)
		case fieldStylusPressure:
			ev.Pressure = uint16(v)
		case fieldStylusTiltX:
			ev.TiltX = int32(uint32(v))
		case fieldStylusTiltY:
			ev.TiltY = int32(uint32(v))
		case fieldStylusTimestamp:
			ev.Timestamp = uint16(v)
		case fieldStylusProximity:
			ev.Proximity = v != 0
		case fieldStylusContact:
			ev.Contact = v != 0
		case fieldStylusButton:
			ev.Button = v != 0
		case fieldStylusRubber:
			ev.Rubber = v != 0
		case fieldStylusSerial:
			ev.Serial = uint32(v)
		}
	}
	return ev, nil
}
