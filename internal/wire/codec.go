package wire

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned (wrapped) when a frame cannot be decoded.
var ErrMalformed = errors.New("wire: malformed container")

// message is implemented by every schema struct.
//
// consume decodes one field whose tag has already been read. It returns the
// number of bytes used, or 0 when the field number is not part of the
// schema so the caller can skip it.
type message interface {
	appendTo(b []byte) []byte
	consume(num protowire.Number, typ protowire.Type, b []byte) (int, error)
}

// Encode serializes a container.
func Encode(c *Container) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil container", ErrMalformed)
	}
	return c.appendTo(nil), nil
}

// Decode parses a container from a single frame. Unknown fields are skipped.
func Decode(b []byte) (*Container, error) {
	c := &Container{}
	if err := unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func unmarshal(b []byte, m message) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		n, err := m.consume(num, typ, b)
		if err != nil {
			return err
		}
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return nil
}

func wrongType(num protowire.Number, typ protowire.Type) error {
	return fmt.Errorf("%w: field %d has unexpected wire type %d", ErrMalformed, num, typ)
}

func parseError(num protowire.Number, n int) error {
	return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
}

// --- encoding helpers; nil pointers are not written ---

func appendDouble(b []byte, num protowire.Number, v *float64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(*v))
}

func appendBool(b []byte, num protowire.Number, v *bool) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(*v))
}

func appendInt32(b []byte, num protowire.Number, v *int32) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(*v)))
}

func appendString(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
}

func appendStrings(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

func appendMessage[PT interface {
	comparable
	message
}](b []byte, num protowire.Number, m PT) []byte {
	var zero PT
	if m == zero {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendTo(nil))
}

func appendMessages[PT interface {
	comparable
	message
}](b []byte, num protowire.Number, ms []PT) []byte {
	for _, m := range ms {
		b = appendMessage(b, num, m)
	}
	return b
}

// --- decoding helpers ---

func readDouble(num protowire.Number, typ protowire.Type, b []byte, dst **float64) (int, error) {
	if typ != protowire.Fixed64Type {
		return 0, wrongType(num, typ)
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, parseError(num, n)
	}
	f := math.Float64frombits(v)
	*dst = &f
	return n, nil
}

func readBool(num protowire.Number, typ protowire.Type, b []byte, dst **bool) (int, error) {
	if typ != protowire.VarintType {
		return 0, wrongType(num, typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, parseError(num, n)
	}
	x := protowire.DecodeBool(v)
	*dst = &x
	return n, nil
}

func readInt32(num protowire.Number, typ protowire.Type, b []byte, dst **int32) (int, error) {
	if typ != protowire.VarintType {
		return 0, wrongType(num, typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, parseError(num, n)
	}
	x := int32(v)
	*dst = &x
	return n, nil
}

func readString(num protowire.Number, typ protowire.Type, b []byte, dst **string) (int, error) {
	if typ != protowire.BytesType {
		return 0, wrongType(num, typ)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, parseError(num, n)
	}
	*dst = &v
	return n, nil
}

func readStrings(num protowire.Number, typ protowire.Type, b []byte, dst *[]string) (int, error) {
	var s *string
	n, err := readString(num, typ, b, &s)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, *s)
	return n, nil
}

// readMessage merges a length-delimited sub-message into *dst, allocating it
// on first sight.
func readMessage[T any, PT interface {
	*T
	message
}](num protowire.Number, typ protowire.Type, b []byte, dst *PT) (int, error) {
	if typ != protowire.BytesType {
		return 0, wrongType(num, typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, parseError(num, n)
	}
	if *dst == nil {
		*dst = PT(new(T))
	}
	if err := unmarshal(v, *dst); err != nil {
		return 0, fmt.Errorf("field %d: %w", num, err)
	}
	return n, nil
}

func readMessages[T any, PT interface {
	*T
	message
}](num protowire.Number, typ protowire.Type, b []byte, dst *[]PT) (int, error) {
	var m PT
	n, err := readMessage[T, PT](num, typ, b, &m)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, m)
	return n, nil
}
