package wire

import "math"

// Every EncodeXxxArray/DecodeXxxArray pair below shares the same contract
// (spec §4.A): offset is where writing/reading starts within buf, maxlen is
// the number of bytes still available to write/read starting at offset, and
// the return value is the number of bytes consumed. A short maxlen yields
// ErrOverflow on encode or ErrTruncated on decode rather than a panic or a
// partial write — callers size buffers from EncodedSize first, so these
// errors only fire against hand-built buffers or corrupt wire data.

// EncodeBoolArray writes n bool values as one byte each (0 or 1).
func EncodeBoolArray(buf []byte, offset, maxlen int, src []bool) (int, error) {
	n := len(src)
	if n > maxlen {
		return 0, ErrOverflow
	}
	for i, v := range src {
		if v {
			buf[offset+i] = 1
		} else {
			buf[offset+i] = 0
		}
	}
	return n, nil
}

// DecodeBoolArray reads n bool values. Any non-zero byte decodes as true.
func DecodeBoolArray(buf []byte, offset, maxlen int, dst []bool) (int, error) {
	n := len(dst)
	if n > maxlen {
		return 0, ErrTruncated
	}
	for i := range dst {
		dst[i] = buf[offset+i] != 0
	}
	return n, nil
}

// EncodeByteArray writes n raw bytes with no length prefix; the declaring
// array dimension carries the length on the wire.
func EncodeByteArray(buf []byte, offset, maxlen int, src []byte) (int, error) {
	n := len(src)
	if n > maxlen {
		return 0, ErrOverflow
	}
	copy(buf[offset:offset+n], src)
	return n, nil
}

// DecodeByteArray reads n raw bytes into dst.
func DecodeByteArray(buf []byte, offset, maxlen int, dst []byte) (int, error) {
	n := len(dst)
	if n > maxlen {
		return 0, ErrTruncated
	}
	copy(dst, buf[offset:offset+n])
	return n, nil
}

// EncodeInt8Array writes n signed 8-bit integers.
func EncodeInt8Array(buf []byte, offset, maxlen int, src []int8) (int, error) {
	n := len(src)
	if n > maxlen {
		return 0, ErrOverflow
	}
	for i, v := range src {
		buf[offset+i] = byte(v)
	}
	return n, nil
}

// DecodeInt8Array reads n signed 8-bit integers.
func DecodeInt8Array(buf []byte, offset, maxlen int, dst []int8) (int, error) {
	n := len(dst)
	if n > maxlen {
		return 0, ErrTruncated
	}
	for i := range dst {
		dst[i] = int8(buf[offset+i])
	}
	return n, nil
}

// EncodeInt16Array writes n signed 16-bit integers, big-endian.
func EncodeInt16Array(buf []byte, offset, maxlen int, src []int16) (int, error) {
	need := len(src) * 2
	if need > maxlen {
		return 0, ErrOverflow
	}
	for i, v := range src {
		putUint16(buf[offset+i*2:], uint16(v))
	}
	return need, nil
}

// DecodeInt16Array reads n signed 16-bit integers, big-endian.
func DecodeInt16Array(buf []byte, offset, maxlen int, dst []int16) (int, error) {
	need := len(dst) * 2
	if need > maxlen {
		return 0, ErrTruncated
	}
	for i := range dst {
		dst[i] = int16(getUint16(buf[offset+i*2:]))
	}
	return need, nil
}

// EncodeInt32Array writes n signed 32-bit integers, big-endian.
func EncodeInt32Array(buf []byte, offset, maxlen int, src []int32) (int, error) {
	need := len(src) * 4
	if need > maxlen {
		return 0, ErrOverflow
	}
	for i, v := range src {
		putUint32(buf[offset+i*4:], uint32(v))
	}
	return need, nil
}

// DecodeInt32Array reads n signed 32-bit integers, big-endian.
func DecodeInt32Array(buf []byte, offset, maxlen int, dst []int32) (int, error) {
	need := len(dst) * 4
	if need > maxlen {
		return 0, ErrTruncated
	}
	for i := range dst {
		dst[i] = int32(getUint32(buf[offset+i*4:]))
	}
	return need, nil
}

// EncodeInt64Array writes n signed 64-bit integers, big-endian.
func EncodeInt64Array(buf []byte, offset, maxlen int, src []int64) (int, error) {
	need := len(src) * 8
	if need > maxlen {
		return 0, ErrOverflow
	}
	for i, v := range src {
		putUint64(buf[offset+i*8:], uint64(v))
	}
	return need, nil
}

// DecodeInt64Array reads n signed 64-bit integers, big-endian.
func DecodeInt64Array(buf []byte, offset, maxlen int, dst []int64) (int, error) {
	need := len(dst) * 8
	if need > maxlen {
		return 0, ErrTruncated
	}
	for i := range dst {
		dst[i] = int64(getUint64(buf[offset+i*8:]))
	}
	return need, nil
}

// EncodeFloat32Array writes n IEEE-754 single-precision floats, big-endian.
func EncodeFloat32Array(buf []byte, offset, maxlen int, src []float32) (int, error) {
	need := len(src) * 4
	if need > maxlen {
		return 0, ErrOverflow
	}
	for i, v := range src {
		putUint32(buf[offset+i*4:], math.Float32bits(v))
	}
	return need, nil
}

// DecodeFloat32Array reads n IEEE-754 single-precision floats, big-endian.
func DecodeFloat32Array(buf []byte, offset, maxlen int, dst []float32) (int, error) {
	need := len(dst) * 4
	if need > maxlen {
		return 0, ErrTruncated
	}
	for i := range dst {
		dst[i] = math.Float32frombits(getUint32(buf[offset+i*4:]))
	}
	return need, nil
}

// EncodeFloat64Array writes n IEEE-754 double-precision floats, big-endian.
func EncodeFloat64Array(buf []byte, offset, maxlen int, src []float64) (int, error) {
	need := len(src) * 8
	if need > maxlen {
		return 0, ErrOverflow
	}
	for i, v := range src {
		putUint64(buf[offset+i*8:], math.Float64bits(v))
	}
	return need, nil
}

// DecodeFloat64Array reads n IEEE-754 double-precision floats, big-endian.
func DecodeFloat64Array(buf []byte, offset, maxlen int, dst []float64) (int, error) {
	need := len(dst) * 8
	if need > maxlen {
		return 0, ErrTruncated
	}
	for i := range dst {
		dst[i] = math.Float64frombits(getUint64(buf[offset+i*8:]))
	}
	return need, nil
}

// Sizes, in bytes, of the fixed-width primitive element types.
const (
	BoolSize    = 1
	ByteSize    = 1
	Int8Size    = 1
	Int16Size   = 2
	Int32Size   = 4
	Int64Size   = 8
	Float32Size = 4
	Float64Size = 8
	HashSize    = 8
)

func putUint16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func getUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}

func getUint64(b []byte) uint64 {
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

// PutHash writes a 64-bit type hash, big-endian, at the start of buf.
func PutHash(buf []byte, hash uint64) {
	putUint64(buf, hash)
}

// GetHash reads a 64-bit type hash, big-endian, from the start of buf.
func GetHash(buf []byte) uint64 {
	return getUint64(buf)
}
