// Package lcm is the runtime facade (spec §4.G): publish/subscribe over a
// pluggable transport, built from pkg/provider and pkg/lcm's own
// subscription registry. Importing a transport package (e.g. pkg/provider/
// udpm) for its side effect registers the scheme New can select.
package lcm

import (
	"syscall"
	"time"

	"github.com/lcm-go/lcm/pkg/lcmerr"
	"github.com/lcm-go/lcm/pkg/provider"
)

// RegisterProvider adds a transport factory under scheme so New can select
// it from a URL. Mirrors pkg/codegen's Register/Get registry shape; it is a
// thin forward onto pkg/provider's own registry so callers of this package
// never need to import pkg/provider directly just to add a transport.
func RegisterProvider(scheme string, factory provider.Factory) {
	provider.Register(scheme, factory)
}

// LCM owns one transport connection and the subscription registry
// multiplexed over it. Each New call builds its own provider table lookup
// and its own registry; nothing here is a shared mutable global beyond the
// scheme registry itself.
type LCM struct {
	transport provider.Provider
	registry  *registry
}

// New parses url (spec §4.F), selects the registered provider for its
// scheme, and opens it. Fails with lcmerr.NoProvider if the scheme is
// unknown, lcmerr.URL if url is malformed, lcmerr.Transport if the
// provider's create fails.
func New(url string) (*LCM, error) {
	parsed, err := provider.ParseURL(url)
	if err != nil {
		return nil, err
	}

	factory, ok := provider.Get(parsed.Scheme)
	if !ok {
		return nil, lcmerr.New(lcmerr.NoProvider, "New", "no provider registered for scheme "+parsed.Scheme)
	}

	l := &LCM{registry: newRegistry()}
	transport, err := factory(parsed.Target, parsed.Args, l.registry.dispatch)
	if err != nil {
		return nil, lcmerr.Wrap(lcmerr.Transport, "New", "creating transport", err)
	}
	l.transport = transport
	return l, nil
}

// Publish sends data on channel. Best-effort; see provider.Provider.Publish.
func (l *LCM) Publish(channel string, data []byte) error {
	return l.transport.Publish(channel, data)
}

// Subscribe registers handler for every channel matching pattern (an
// extended regex anchored to the whole channel name, spec §4.E).
func (l *LCM) Subscribe(pattern string, handler Handler) (*Subscription, error) {
	return l.registry.subscribe(pattern, handler)
}

// Unsubscribe removes sub. Safe to call from within a handler, including
// the handler's own subscription.
func (l *LCM) Unsubscribe(sub *Subscription) error {
	return l.registry.unsubscribe(sub)
}

// HasSubscribers reports whether channel currently has a matching
// subscription, without blocking or dispatching anything (grounded on
// lcm_has_handlers).
func (l *LCM) HasSubscribers(channel string) bool {
	return l.registry.hasHandlers(channel)
}

// Handle blocks until the transport has received and dispatched exactly
// one frame, or returns a non-nil error on an unrecoverable failure.
func (l *LCM) Handle() error {
	return l.transport.Handle()
}

// TimedHandle waits up to timeout for a frame. It returns (false, nil) on
// timeout, (true, nil) after a frame was received and dispatched, and a
// non-nil error on an unrecoverable transport failure (spec §4.G).
func (l *LCM) TimedHandle(timeout time.Duration) (bool, error) {
	fd := l.transport.Fileno()
	if fd < 0 {
		// No descriptor exposed for select; degrade to an untimed Handle.
		if err := l.Handle(); err != nil {
			return false, err
		}
		return true, nil
	}

	var set syscall.FdSet
	fdSet(&set, fd)
	tv := syscall.NsecToTimeval(timeout.Nanoseconds())

	n, err := syscall.Select(fd+1, &set, nil, nil, &tv)
	if err != nil {
		return false, lcmerr.Wrap(lcmerr.Transport, "TimedHandle", "select", err)
	}
	if n == 0 {
		return false, nil
	}
	if err := l.Handle(); err != nil {
		return false, err
	}
	return true, nil
}

func fdSet(set *syscall.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

// Fileno returns a descriptor that becomes readable when a frame is
// pending, or -1 if the transport doesn't expose one.
func (l *LCM) Fileno() int {
	return l.transport.Fileno()
}

// Close tears down the transport connection and unsubscribes every
// remaining handler. Safe to call exactly once.
func (l *LCM) Close() error {
	err := l.transport.Close()
	l.registry.clear()
	return err
}
