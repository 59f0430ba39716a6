package udpm

import (
	"bytes"
	"net"
	"testing"
)

var testSender = &net.UDPAddr{IP: net.ParseIP("192.0.2.1"), Port: 51000}

func TestEncodeDecodeFragmentRoundTrip(t *testing.T) {
	payload := []byte("hello lcm")
	datagram := encodeFragment(42, 0, 1, "EXAMPLE", payload)

	channel, seq, idx, count, got, ok := decodeFragment(datagram)
	if !ok {
		t.Fatal("decodeFragment returned ok=false")
	}
	if channel != "EXAMPLE" {
		t.Errorf("channel = %q", channel)
	}
	if seq != 42 || idx != 0 || count != 1 {
		t.Errorf("seq=%d idx=%d count=%d", seq, idx, count)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %q, want %q", got, payload)
	}
}

func TestDecodeFragmentRejectsBadMagic(t *testing.T) {
	datagram := encodeFragment(1, 0, 1, "X", []byte("y"))
	datagram[0] ^= 0xff
	if _, _, _, _, _, ok := decodeFragment(datagram); ok {
		t.Fatal("expected decode failure on corrupted magic")
	}
}

func TestDecodeFragmentRejectsShortBuffer(t *testing.T) {
	if _, _, _, _, _, ok := decodeFragment([]byte{1, 2, 3}); ok {
		t.Fatal("expected decode failure on short buffer")
	}
}

func TestReassembleAcrossFragments(t *testing.T) {
	p := &udpmProvider{reassemb: make(map[fragKey]*partial)}

	if out := p.reassemble(testSender, 7, "CH", 0, 2, []byte("ab")); out != nil {
		t.Fatalf("expected nil before all fragments arrive, got %q", out)
	}
	out := p.reassemble(testSender, 7, "CH", 1, 2, []byte("cd"))
	if out == nil {
		t.Fatal("expected reassembled payload after final fragment")
	}
	if !bytes.Equal(out, []byte("abcd")) {
		t.Errorf("reassembled = %q, want %q", out, "abcd")
	}
	key := fragKey{addr: testSender.String(), seq: 7}
	if _, pending := p.reassemb[key]; pending {
		t.Error("expected reassembly state to be cleared after completion")
	}
}

func TestReassembleIgnoresDuplicateFragment(t *testing.T) {
	p := &udpmProvider{reassemb: make(map[fragKey]*partial)}

	p.reassemble(testSender, 3, "CH", 0, 2, []byte("ab"))
	p.reassemble(testSender, 3, "CH", 0, 2, []byte("zz")) // duplicate of fragment 0, should be ignored
	out := p.reassemble(testSender, 3, "CH", 1, 2, []byte("cd"))
	if !bytes.Equal(out, []byte("abcd")) {
		t.Errorf("reassembled = %q, want %q (duplicate fragment must not overwrite)", out, "abcd")
	}
}

func TestReassembleKeyedBySender(t *testing.T) {
	p := &udpmProvider{reassemb: make(map[fragKey]*partial)}
	senderA := &net.UDPAddr{IP: net.ParseIP("192.0.2.1"), Port: 51000}
	senderB := &net.UDPAddr{IP: net.ParseIP("192.0.2.2"), Port: 51000}

	// Both senders independently start at seq 1; their fragments must not
	// interleave into each other's reassembly.
	p.reassemble(senderA, 1, "CH", 0, 2, []byte("AA"))
	p.reassemble(senderB, 1, "CH", 0, 2, []byte("BB"))
	outA := p.reassemble(senderA, 1, "CH", 1, 2, []byte("aa"))
	outB := p.reassemble(senderB, 1, "CH", 1, 2, []byte("bb"))

	if !bytes.Equal(outA, []byte("AAaa")) {
		t.Errorf("sender A reassembled = %q, want %q", outA, "AAaa")
	}
	if !bytes.Equal(outB, []byte("BBbb")) {
		t.Errorf("sender B reassembled = %q, want %q", outB, "BBbb")
	}
}

func TestReassembleRejectsOutOfRangeIndex(t *testing.T) {
	p := &udpmProvider{reassemb: make(map[fragKey]*partial)}

	// A colliding/malformed datagram claiming idx >= count must be dropped,
	// not indexed into part.parts.
	if out := p.reassemble(testSender, 9, "CH", 5, 2, []byte("xx")); out != nil {
		t.Errorf("expected nil for out-of-range index, got %q", out)
	}
}
