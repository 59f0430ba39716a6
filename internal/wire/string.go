package wire

// StringSize returns the number of bytes EncodeString needs for s: a 4-byte
// length prefix, the UTF-8 bytes, and a trailing NUL.
func StringSize(s string) int {
	return 4 + len(s) + 1
}

// EncodeString writes s as len32 ‖ utf8_bytes ‖ 0x00, where len32 counts the
// string bytes plus the trailing NUL (spec §4.A). This layout lets a C-style
// consumer treat the payload as a NUL-terminated buffer while still bounding
// the read with an explicit length.
func EncodeString(buf []byte, offset, maxlen int, s string) (int, error) {
	need := StringSize(s)
	if need > maxlen {
		return 0, ErrOverflow
	}
	putUint32(buf[offset:], uint32(len(s)+1))
	copy(buf[offset+4:], s)
	buf[offset+4+len(s)] = 0
	return need, nil
}

// DecodeString reads a string encoded by EncodeString.
func DecodeString(buf []byte, offset, maxlen int) (string, int, error) {
	if maxlen < 4 {
		return "", 0, ErrTruncated
	}
	total := int(getUint32(buf[offset:]))
	if total < 1 {
		return "", 0, ErrNegativeLength
	}
	need := 4 + total
	if need > maxlen {
		return "", 0, ErrTruncated
	}
	strLen := total - 1
	s := string(buf[offset+4 : offset+4+strLen])
	return s, need, nil
}
