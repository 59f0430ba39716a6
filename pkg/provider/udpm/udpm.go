// Package udpm is the reference LCM transport: publish-subscribe over UDP
// multicast. It registers itself under the "udpm" scheme (spec §4.F) so any
// caller that imports this package for its side effect gets udpm:// support
// without touching pkg/lcm.
//
// The wire idiom here — a receiver goroutine feeding a channel, a sender
// writing through a connected socket — follows the UDP pub/sub structure in
// burgrp-surp-go's pkg/surp (a receive loop pushing MessageAndAddr values
// onto a channel read by the owning type).
package udpm

import (
	"log"
	"net"
	"strconv"
	"sync"
	"syscall"

	"github.com/lcm-go/lcm/pkg/lcmerr"
	"github.com/lcm-go/lcm/pkg/provider"
)

// magic tags every datagram this package puts on the wire. It has nothing to
// do with the LCM message type hash; it just lets a udpm receiver tell a
// fragment header from noise on the multicast group.
const magic uint32 = 0x4c434d31 // "LCM1"

// fragment header layout, big-endian: magic(4) seq(4) fragIdx(2) fragCount(2)
// channelLen(1) channel(channelLen) payload(...)
const headerFixedLen = 4 + 4 + 2 + 2 + 1

// maxDatagram is the largest single UDP payload this provider will write;
// messages larger than maxPayloadPerFragment are split across multiple
// fragCount datagrams sharing one seq.
const maxDatagram = 65507
const maxPayloadPerFragment = maxDatagram - headerFixedLen - 255

// defaultTTL matches lcm_udpm's documented default multicast hop limit.
const defaultTTL = 1

func init() {
	provider.Register("udpm", create)
}

type udpmProvider struct {
	mcastConn *net.UDPConn // receives and joins the multicast group
	sendConn  *net.UDPConn // connected socket used for publish
	mcastAddr *net.UDPAddr

	dispatch provider.Dispatcher
	logf     func(format string, args ...any)

	mu       sync.Mutex
	seq      uint32
	reassemb map[fragKey]*partial

	frames chan receivedFrame
	closed chan struct{}
	once   sync.Once
}

// fragKey identifies an in-flight reassembly by sender and sequence number,
// matching lcm_udpm: seq alone collides across independent publishers on the
// same multicast group.
type fragKey struct {
	addr string // net.UDPAddr.String(), includes port
	seq  uint32
}

type partial struct {
	channel string
	count   int
	got     int
	parts   [][]byte
}

type receivedFrame struct {
	channel string
	payload []byte
}

func create(target string, args map[string]string, dispatch provider.Dispatcher) (provider.Provider, error) {
	addr, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		return nil, lcmerr.Wrap(lcmerr.Transport, "udpm.create", "resolving "+target, err)
	}

	mcastConn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return nil, lcmerr.Wrap(lcmerr.Transport, "udpm.create", "joining multicast group "+target, err)
	}

	sendConn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		mcastConn.Close()
		return nil, lcmerr.Wrap(lcmerr.Transport, "udpm.create", "opening send socket to "+target, err)
	}

	p := &udpmProvider{
		mcastConn: mcastConn,
		sendConn:  sendConn,
		mcastAddr: addr,
		dispatch:  dispatch,
		logf:      log.Printf,
		reassemb:  make(map[fragKey]*partial),
		frames:    make(chan receivedFrame, 64),
		closed:    make(chan struct{}),
	}

	if err := p.applyArgs(args); err != nil {
		mcastConn.Close()
		sendConn.Close()
		return nil, err
	}

	go p.recvLoop()

	return p, nil
}

func (p *udpmProvider) applyArgs(args map[string]string) error {
	ttl := defaultTTL
	if v, ok := args["ttl"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return lcmerr.Wrapf(lcmerr.URL, "udpm.create", err, "invalid ttl %q", v)
		}
		ttl = n
	}
	if err := setMulticastTTL(p.sendConn, ttl); err != nil {
		return lcmerr.Wrap(lcmerr.Transport, "udpm.create", "setting multicast TTL", err)
	}

	if v, ok := args["sndbuf"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return lcmerr.Wrapf(lcmerr.URL, "udpm.create", err, "invalid sndbuf %q", v)
		}
		if err := p.sendConn.SetWriteBuffer(n); err != nil {
			return lcmerr.Wrap(lcmerr.Transport, "udpm.create", "setting sndbuf", err)
		}
	}
	if v, ok := args["rcvbuf"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return lcmerr.Wrapf(lcmerr.URL, "udpm.create", err, "invalid rcvbuf %q", v)
		}
		if err := p.mcastConn.SetReadBuffer(n); err != nil {
			return lcmerr.Wrap(lcmerr.Transport, "udpm.create", "setting rcvbuf", err)
		}
	}
	return nil
}

// setMulticastTTL sets IP_MULTICAST_TTL on conn's underlying file
// descriptor. The stdlib net package has no typed accessor for this socket
// option on UDPConn; SyscallConn plus the standard library's own syscall
// package is the plain escape hatch, same posture as reaching for a raw fd
// instead of an extra transport dependency for one setsockopt.
func setMulticastTTL(conn *net.UDPConn, ttl int) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	err = raw.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.IPPROTO_IP, syscall.IP_MULTICAST_TTL, ttl)
	})
	if err != nil {
		return err
	}
	return sockErr
}

func (p *udpmProvider) Publish(channel string, frame []byte) error {
	if len(channel) > 255 {
		return lcmerr.New(lcmerr.Transport, "udpm.Publish", "channel name exceeds 255 bytes")
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	fragCount := 1
	if len(frame) > maxPayloadPerFragment {
		fragCount = (len(frame) + maxPayloadPerFragment - 1) / maxPayloadPerFragment
	}

	for i := 0; i < fragCount; i++ {
		start := i * maxPayloadPerFragment
		end := start + maxPayloadPerFragment
		if end > len(frame) {
			end = len(frame)
		}
		datagram := encodeFragment(seq, uint16(i), uint16(fragCount), channel, frame[start:end])
		if _, err := p.sendConn.Write(datagram); err != nil {
			return lcmerr.Wrap(lcmerr.Transport, "udpm.Publish", "writing datagram", err)
		}
	}
	return nil
}

func (p *udpmProvider) Handle() error {
	select {
	case f, ok := <-p.frames:
		if !ok {
			return lcmerr.New(lcmerr.Transport, "udpm.Handle", "provider closed")
		}
		p.dispatch(f.channel, f.payload)
		return nil
	case <-p.closed:
		return lcmerr.New(lcmerr.Transport, "udpm.Handle", "provider closed")
	}
}

func (p *udpmProvider) Fileno() int {
	raw, err := p.mcastConn.SyscallConn()
	if err != nil {
		return -1
	}
	fd := -1
	raw.Control(func(f uintptr) { fd = int(f) })
	return fd
}

func (p *udpmProvider) Close() error {
	var err error
	p.once.Do(func() {
		close(p.closed)
		err = p.mcastConn.Close()
		if sendErr := p.sendConn.Close(); err == nil {
			err = sendErr
		}
	})
	return err
}

func (p *udpmProvider) recvLoop() {
	buf := make([]byte, maxDatagram)
	for {
		n, from, err := p.mcastConn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-p.closed:
				close(p.frames)
				return
			default:
				p.logf("udpm: read error: %v", err)
				continue
			}
		}

		channel, seq, idx, count, payload, ok := decodeFragment(buf[:n])
		if !ok {
			continue
		}

		if count == 1 {
			// buf is reused by the next Read; the channel/fragment payload
			// must be copied out before it can outlive this iteration.
			owned := append([]byte(nil), payload...)
			p.frames <- receivedFrame{channel: channel, payload: owned}
			continue
		}

		if complete := p.reassemble(from, seq, channel, int(idx), int(count), payload); complete != nil {
			p.frames <- receivedFrame{channel: channel, payload: complete}
		}
	}
}

func (p *udpmProvider) reassemble(from *net.UDPAddr, seq uint32, channel string, idx, count int, payload []byte) []byte {
	logf := p.logf
	if logf == nil {
		logf = log.Printf
	}

	if idx < 0 || idx >= count {
		logf("udpm: fragment index %d out of range for count %d, dropping", idx, count)
		return nil
	}

	key := fragKey{addr: from.String(), seq: seq}

	p.mu.Lock()
	defer p.mu.Unlock()

	part, ok := p.reassemb[key]
	if !ok {
		part = &partial{channel: channel, count: count, parts: make([][]byte, count)}
		p.reassemb[key] = part
	}
	if idx >= len(part.parts) {
		// A colliding key whose first-seen fragment reported a smaller
		// count; drop this fragment rather than index past the parts slice.
		logf("udpm: fragment index %d exceeds in-flight count %d for %v, dropping", idx, len(part.parts), key)
		return nil
	}
	if part.parts[idx] == nil {
		// buf is reused by the next Read; copy this fragment's payload out
		// before it is stashed for later reassembly.
		part.parts[idx] = append([]byte(nil), payload...)
		part.got++
	}
	if part.got < part.count {
		return nil
	}
	delete(p.reassemb, key)

	total := 0
	for _, chunk := range part.parts {
		total += len(chunk)
	}
	out := make([]byte, 0, total)
	for _, chunk := range part.parts {
		out = append(out, chunk...)
	}
	return out
}

func encodeFragment(seq uint32, idx, count uint16, channel string, payload []byte) []byte {
	out := make([]byte, headerFixedLen+len(channel)+len(payload))
	mg := magic
	out[0] = byte(mg >> 24)
	out[1] = byte(mg >> 16)
	out[2] = byte(mg >> 8)
	out[3] = byte(mg)
	out[4] = byte(seq >> 24)
	out[5] = byte(seq >> 16)
	out[6] = byte(seq >> 8)
	out[7] = byte(seq)
	out[8] = byte(idx >> 8)
	out[9] = byte(idx)
	out[10] = byte(count >> 8)
	out[11] = byte(count)
	out[12] = byte(len(channel))
	n := copy(out[13:], channel)
	copy(out[13+n:], payload)
	return out
}

func decodeFragment(buf []byte) (channel string, seq uint32, idx, count uint16, payload []byte, ok bool) {
	if len(buf) < headerFixedLen {
		return "", 0, 0, 0, nil, false
	}
	got := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	if got != magic {
		return "", 0, 0, 0, nil, false
	}
	seq = uint32(buf[4])<<24 | uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
	idx = uint16(buf[8])<<8 | uint16(buf[9])
	count = uint16(buf[10])<<8 | uint16(buf[11])
	chLen := int(buf[12])
	if len(buf) < headerFixedLen+chLen {
		return "", 0, 0, 0, nil, false
	}
	channel = string(buf[13 : 13+chLen])
	payload = buf[13+chLen:]
	return channel, seq, idx, count, payload, true
}
