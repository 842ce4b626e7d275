// Package emit encodes the per-function layouts the resolver produces into
// the wire form handed to the bytecode emitter.
//
// The encoding is protobuf wire format:
//
//	message Layouts       { repeated FunctionLayout function = 1; }
//	message FunctionLayout {
//	  string name = 1;
//	  uint64 frame_size = 2;
//	  repeated CaptureEntry capture = 3;
//	}
//	message CaptureEntry {
//	  uint64 symbol_id = 1;
//	  string name = 2;
//	  bool global = 3;
//	  uint64 slot = 4;
//	  sint64 parent_index = 5; // -1: read from the enclosing frame
//	}
package emit

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/funvibe/rootscope/internal/symbols"
)

const (
	layoutsFunction = 1

	layoutName      = 1
	layoutFrameSize = 2
	layoutCapture   = 3

	captureSymbolID    = 1
	captureName        = 2
	captureGlobal      = 3
	captureSlot        = 4
	captureParentIndex = 5
)

// EncodeLayouts encodes layouts in order.
func EncodeLayouts(layouts []symbols.FunctionLayout) []byte {
	var b []byte
	for _, l := range layouts {
		b = protowire.AppendTag(b, layoutsFunction, protowire.BytesType)
		b = protowire.AppendBytes(b, EncodeLayout(l))
	}
	return b
}

// EncodeLayout encodes a single function layout.
func EncodeLayout(l symbols.FunctionLayout) []byte {
	var b []byte
	if l.Name != "" {
		b = protowire.AppendTag(b, layoutName, protowire.BytesType)
		b = protowire.AppendString(b, l.Name)
	}
	b = protowire.AppendTag(b, layoutFrameSize, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(l.FrameSize))
	for _, c := range l.Captures {
		b = protowire.AppendTag(b, layoutCapture, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeCapture(c))
	}
	return b
}

func encodeCapture(c symbols.CaptureEntry) []byte {
	var b []byte
	b = protowire.AppendTag(b, captureSymbolID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.SymbolID))
	b = protowire.AppendTag(b, captureName, protowire.BytesType)
	b = protowire.AppendString(b, c.Name)
	if c.Global {
		b = protowire.AppendTag(b, captureGlobal, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	b = protowire.AppendTag(b, captureSlot, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.Slot))
	b = protowire.AppendTag(b, captureParentIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(c.ParentIndex)))
	return b
}

// DecodeError reports malformed layout bytes.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode layout at byte %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decoder walks the fields of one message. Unknown fields are skipped.
// off is the position of b within the outermost buffer, so errors in a
// nested message report an absolute offset.
type decoder struct {
	b   []byte
	off int
}

func (d *decoder) fail(n int) error {
	return &DecodeError{Offset: d.off, Err: protowire.ParseError(n)}
}

// next returns the next field, or ok=false at the end of the message.
func (d *decoder) next() (num protowire.Number, typ protowire.Type, ok bool, err error) {
	if len(d.b) == 0 {
		return 0, 0, false, nil
	}
	num, typ, n := protowire.ConsumeTag(d.b)
	if n < 0 {
		return 0, 0, false, d.fail(n)
	}
	d.advance(n)
	return num, typ, true, nil
}

func (d *decoder) advance(n int) {
	d.b = d.b[n:]
	d.off += n
}

func (d *decoder) varint(typ protowire.Type) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, &DecodeError{Offset: d.off, Err: fmt.Errorf("wire type %d, want varint", typ)}
	}
	v, n := protowire.ConsumeVarint(d.b)
	if n < 0 {
		return 0, d.fail(n)
	}
	d.advance(n)
	return v, nil
}

// bytes consumes a length-delimited field and returns its payload together
// with the absolute offset the payload starts at.
func (d *decoder) bytes(typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, &DecodeError{Offset: d.off, Err: fmt.Errorf("wire type %d, want bytes", typ)}
	}
	v, n := protowire.ConsumeBytes(d.b)
	if n < 0 {
		return nil, 0, d.fail(n)
	}
	start := d.off + n - len(v)
	d.advance(n)
	return v, start, nil
}

func (d *decoder) skip(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, d.b)
	if n < 0 {
		return d.fail(n)
	}
	d.advance(n)
	return nil
}

// DecodeLayouts decodes the output of EncodeLayouts.
func DecodeLayouts(b []byte) ([]symbols.FunctionLayout, error) {
	var out []symbols.FunctionLayout
	d := &decoder{b: b}
	for {
		num, typ, ok, err := d.next()
		if err != nil || !ok {
			return out, err
		}
		if num != layoutsFunction {
			if err := d.skip(num, typ); err != nil {
				return nil, err
			}
			continue
		}
		msg, at, err := d.bytes(typ)
		if err != nil {
			return nil, err
		}
		l, err := decodeLayout(msg, at)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
}

// DecodeLayout decodes the output of EncodeLayout.
func DecodeLayout(b []byte) (symbols.FunctionLayout, error) {
	return decodeLayout(b, 0)
}

func decodeLayout(b []byte, base int) (symbols.FunctionLayout, error) {
	var l symbols.FunctionLayout
	d := &decoder{b: b, off: base}
	for {
		num, typ, ok, err := d.next()
		if err != nil {
			return l, err
		}
		if !ok {
			return l, nil
		}
		switch num {
		case layoutName:
			v, _, err := d.bytes(typ)
			if err != nil {
				return l, err
			}
			l.Name = string(v)
		case layoutFrameSize:
			v, err := d.varint(typ)
			if err != nil {
				return l, err
			}
			l.FrameSize = int(v)
		case layoutCapture:
			v, at, err := d.bytes(typ)
			if err != nil {
				return l, err
			}
			c, err := decodeCapture(v, at)
			if err != nil {
				return l, err
			}
			l.Captures = append(l.Captures, c)
		default:
			if err := d.skip(num, typ); err != nil {
				return l, err
			}
		}
	}
}

func decodeCapture(b []byte, base int) (symbols.CaptureEntry, error) {
	var c symbols.CaptureEntry
	d := &decoder{b: b, off: base}
	for {
		num, typ, ok, err := d.next()
		if err != nil {
			return c, err
		}
		if !ok {
			return c, nil
		}
		if num == captureName {
			v, _, err := d.bytes(typ)
			if err != nil {
				return c, err
			}
			c.Name = string(v)
			continue
		}
		if num < captureSymbolID || num > captureParentIndex {
			if err := d.skip(num, typ); err != nil {
				return c, err
			}
			continue
		}
		v, err := d.varint(typ)
		if err != nil {
			return c, err
		}
		switch num {
		case captureSymbolID:
			c.SymbolID = int(v)
		case captureGlobal:
			c.Global = protowire.DecodeBool(v)
		case captureSlot:
			c.Slot = int(v)
		case captureParentIndex:
			c.ParentIndex = int(protowire.DecodeZigZag(v))
		}
	}
}
