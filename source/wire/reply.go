package wire

import (
	"kvstored/pkg/binio"

	"github.com/pkg/errors"
)

// Tag identifies the type of a single reply value.
type Tag byte

const (
	TagStr Tag = 0x00
	TagNil Tag = 0x01
	TagInt Tag = 0x02
	TagErr Tag = 0x03
	TagArr Tag = 0x04
	TagDbl Tag = 0x05
)

// ErrMalformedValue is returned by DecodeValue when a tagged value is
// truncated or carries an unknown tag.
var ErrMalformedValue = errors.New("wire: malformed tagged value")

// AppendStr appends a STR value (tag 0x00, u32 len, bytes) to buf.
func AppendStr(buf []byte, s []byte) []byte {
	buf = append(buf, byte(TagStr))
	buf = binio.PutUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// AppendNil appends a NIL value (tag 0x01, no payload) to buf.
func AppendNil(buf []byte) []byte {
	return append(buf, byte(TagNil))
}

// AppendInt appends an INT value (tag 0x02, signed 64-bit) to buf.
func AppendInt(buf []byte, v int64) []byte {
	buf = append(buf, byte(TagInt))
	return binio.PutInt64(buf, v)
}

// AppendErr appends an ERR value (tag 0x03, u32 len, utf8-or-bytes) to buf.
func AppendErr(buf []byte, msg string) []byte {
	buf = append(buf, byte(TagErr))
	buf = binio.PutUint32(buf, uint32(len(msg)))
	return append(buf, msg...)
}

// AppendArrHeader appends an ARR header (tag 0x04, u32 count) to buf.
// The caller is responsible for appending exactly count values after it.
func AppendArrHeader(buf []byte, count uint32) []byte {
	buf = append(buf, byte(TagArr))
	return binio.PutUint32(buf, count)
}

// AppendDouble appends a DBL value (tag 0x05, IEEE-754 64-bit) to buf.
func AppendDouble(buf []byte, v float64) []byte {
	buf = append(buf, byte(TagDbl))
	return binio.PutFloat64(buf, v)
}

// FrameReply wraps body (a single encoded tagged value) with its
// reply_len:u32 prefix, appending the result to buf.
func FrameReply(buf []byte, body []byte) []byte {
	buf = binio.PutUint32(buf, uint32(len(body)))
	return append(buf, body...)
}

// Value is a decoded reply value, used by tests and the client to work
// with reply bytes without re-deriving the tag layout by hand.
type Value struct {
	Tag Tag
	Str []byte  // TagStr, TagErr
	Int int64   // TagInt
	Dbl float64 // TagDbl
	Arr []Value // TagArr
}

// DecodeValue decodes a single tagged value from the front of buf,
// returning the value and the number of bytes consumed. Nested ARR
// values are decoded recursively.
func DecodeValue(buf []byte) (Value, int, error) {
	if len(buf) < 1 {
		return Value{}, 0, ErrMalformedValue
	}
	tag := Tag(buf[0])
	pos := 1
	switch tag {
	case TagStr, TagErr:
		if pos+4 > len(buf) {
			return Value{}, 0, ErrMalformedValue
		}
		n := int(binio.Uint32(buf[pos:]))
		pos += 4
		if n < 0 || pos+n > len(buf) {
			return Value{}, 0, ErrMalformedValue
		}
		return Value{Tag: tag, Str: buf[pos : pos+n]}, pos + n, nil
	case TagNil:
		return Value{Tag: tag}, pos, nil
	case TagInt:
		if pos+8 > len(buf) {
			return Value{}, 0, ErrMalformedValue
		}
		return Value{Tag: tag, Int: binio.Int64(buf[pos:])}, pos + 8, nil
	case TagDbl:
		if pos+8 > len(buf) {
			return Value{}, 0, ErrMalformedValue
		}
		return Value{Tag: tag, Dbl: binio.Float64(buf[pos:])}, pos + 8, nil
	case TagArr:
		if pos+4 > len(buf) {
			return Value{}, 0, ErrMalformedValue
		}
		count := int(binio.Uint32(buf[pos:]))
		pos += 4
		arr := make([]Value, 0, count)
		for i := 0; i < count; i++ {
			v, n, err := DecodeValue(buf[pos:])
			if err != nil {
				return Value{}, 0, err
			}
			arr = append(arr, v)
			pos += n
		}
		return Value{Tag: tag, Arr: arr}, pos, nil
	default:
		return Value{}, 0, errors.Wrapf(ErrMalformedValue, "unknown tag 0x%02x", byte(tag))
	}
}
