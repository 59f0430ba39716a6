package wire

import "testing"

func TestEncodeDecodeString(t *testing.T) {
	tests := []string{"", "hello", "with spaces and punctuation!", "unicode: éè"}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			size := StringSize(s)
			buf := make([]byte, size)
			n, err := EncodeString(buf, 0, size, s)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if n != size {
				t.Fatalf("n = %d, want %d", n, size)
			}
			// Trailing NUL per spec §4.A.
			if buf[size-1] != 0 {
				t.Fatalf("missing trailing NUL")
			}
			got, n2, err := DecodeString(buf, 0, size)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if n2 != size {
				t.Fatalf("decode n = %d, want %d", n2, size)
			}
			if got != s {
				t.Fatalf("got %q, want %q", got, s)
			}
		})
	}
}

func TestEncodeStringOverflow(t *testing.T) {
	if _, err := EncodeString(make([]byte, 3), 0, 3, "abc"); err != ErrOverflow {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
}

func TestDecodeStringTruncated(t *testing.T) {
	buf := make([]byte, 8)
	PutHash(buf, 0) // unrelated filler to exercise offset math
	if _, _, err := DecodeString(buf[:2], 0, 2); err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}
