// Package wire implements the request/reply codec: request framing and
// parsing, and tagged-value reply encoding/decoding. Every function here
// is a pure function over caller-supplied byte buffers — no socket I/O,
// no global state.
package wire

import (
	"kvstored/pkg/binio"

	"github.com/pkg/errors"
)

// MaxFrameLen is the largest total_len a request frame may declare
// (the payload following the 4-byte total_len prefix). A frame's bytes
// on the wire therefore never exceed 4 + MaxFrameLen.
const MaxFrameLen = 4096

// MaxArgc is the largest argc a request frame may declare.
const MaxArgc = 1024

// FrameLenPrefixSize is the size of the total_len / reply_len prefix.
const FrameLenPrefixSize = 4

var (
	// ErrOversizeFrame is returned when total_len exceeds MaxFrameLen.
	ErrOversizeFrame = errors.New("wire: frame exceeds maximum size")
	// ErrTooManyArgs is returned when argc exceeds MaxArgc.
	ErrTooManyArgs = errors.New("wire: argument count exceeds maximum")
	// ErrTruncated is returned when a declared argument length runs past
	// the end of the frame.
	ErrTruncated = errors.New("wire: truncated argument")
	// ErrTrailingBytes is returned when the sum of nested lengths does
	// not exactly consume the frame.
	ErrTrailingBytes = errors.New("wire: trailing bytes after last argument")
)

// PeekFrameLen reads the 4-byte little-endian total_len prefix from the
// front of buf without consuming anything. ok is false if buf is too
// short to contain the prefix.
func PeekFrameLen(buf []byte) (total uint32, ok bool) {
	if len(buf) < FrameLenPrefixSize {
		return 0, false
	}
	return binio.Uint32(buf), true
}

// ParseRequest decodes the argument vector out of a single complete
// frame's payload: buf must be exactly total_len bytes, i.e. everything
// after the total_len prefix (the argc field and all arg_len|arg_bytes
// pairs). The returned slices alias buf; callers that retain them across
// a buffer reuse must copy.
func ParseRequest(buf []byte) ([][]byte, error) {
	if len(buf) < 4 {
		return nil, errors.Wrap(ErrTruncated, "missing argc")
	}
	argc := binio.Uint32(buf)
	if argc > MaxArgc {
		return nil, ErrTooManyArgs
	}
	pos := 4
	argv := make([][]byte, 0, argc)
	for i := uint32(0); i < argc; i++ {
		if pos+4 > len(buf) {
			return nil, errors.Wrapf(ErrTruncated, "argument %d length field", i)
		}
		alen := binio.Uint32(buf[pos:])
		pos += 4
		end := pos + int(alen)
		if alen > MaxFrameLen || end < pos || end > len(buf) {
			return nil, errors.Wrapf(ErrTruncated, "argument %d body", i)
		}
		argv = append(argv, buf[pos:end])
		pos = end
	}
	if pos != len(buf) {
		return nil, ErrTrailingBytes
	}
	return argv, nil
}

// BuildRequest serializes argv into a complete request frame, including
// the leading total_len prefix. It is the mirror image of ParseRequest
// and is used by the client transport.
func BuildRequest(argv [][]byte) ([]byte, error) {
	if len(argv) > MaxArgc {
		return nil, ErrTooManyArgs
	}
	body := make([]byte, 0, 4+16*len(argv))
	body = binio.PutUint32(body, uint32(len(argv)))
	for _, a := range argv {
		body = binio.PutUint32(body, uint32(len(a)))
		body = append(body, a...)
	}
	if len(body) > MaxFrameLen {
		return nil, ErrOversizeFrame
	}
	frame := make([]byte, 0, 4+len(body))
	frame = binio.PutUint32(frame, uint32(len(body)))
	frame = append(frame, body...)
	return frame, nil
}

// ExtractFrame looks for one complete frame at the front of rbuf. It
// returns the frame's payload (the total_len bytes following the
// prefix), the number of bytes the caller should consume from rbuf, and
// whether a complete frame was found. An oversize declared total_len is
// reported via err so the caller can close the connection per spec.
func ExtractFrame(rbuf []byte) (payload []byte, consumed int, ok bool, err error) {
	total, have := PeekFrameLen(rbuf)
	if !have {
		return nil, 0, false, nil
	}
	if total > MaxFrameLen {
		return nil, 0, false, ErrOversizeFrame
	}
	need := FrameLenPrefixSize + int(total)
	if len(rbuf) < need {
		return nil, 0, false, nil
	}
	return rbuf[FrameLenPrefixSize:need], need, true, nil
}
