package lcm

import (
	"testing"
	"time"

	"github.com/lcm-go/lcm/pkg/lcmerr"
	"github.com/lcm-go/lcm/pkg/provider"
)

// memProvider is an in-process fake transport used only by this test file:
// Publish loops a frame straight back to Handle's dispatch callback via a
// channel, so these tests exercise New/Subscribe/Publish/Handle/Close
// without opening a real socket.
type memProvider struct {
	frames   chan provider.Dispatcher
	payloads chan struct {
		channel string
		data    []byte
	}
	dispatch provider.Dispatcher
	closed   chan struct{}
}

func newMemProvider(target string, args map[string]string, dispatch provider.Dispatcher) (provider.Provider, error) {
	return &memProvider{
		dispatch: dispatch,
		payloads: make(chan struct {
			channel string
			data    []byte
		}, 8),
		closed: make(chan struct{}),
	}, nil
}

func (m *memProvider) Publish(channel string, frame []byte) error {
	m.payloads <- struct {
		channel string
		data    []byte
	}{channel, frame}
	return nil
}

func (m *memProvider) Handle() error {
	select {
	case p := <-m.payloads:
		m.dispatch(p.channel, p.data)
		return nil
	case <-m.closed:
		return lcmerr.New(lcmerr.Transport, "memProvider.Handle", "closed")
	}
}

func (m *memProvider) Fileno() int { return -1 }

func (m *memProvider) Close() error {
	close(m.closed)
	return nil
}

func init() {
	provider.Register("memq", newMemProvider)
}

func TestNewPublishSubscribeHandle(t *testing.T) {
	l, err := New("memq://test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	var got []byte
	if _, err := l.Subscribe("CHANNEL", func(channel string, data []byte) {
		got = data
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := l.Publish("CHANNEL", []byte("payload")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := l.Handle(); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("got = %q", got)
	}
}

func TestNewUnknownSchemeFails(t *testing.T) {
	_, err := New("nosuchscheme://test")
	if !lcmerr.Is(err, lcmerr.NoProvider) {
		t.Fatalf("err = %v, want lcmerr.NoProvider", err)
	}
}

func TestHasSubscribers(t *testing.T) {
	l, err := New("memq://test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	if l.HasSubscribers("CHANNEL") {
		t.Fatal("expected no subscribers before Subscribe")
	}
	l.Subscribe("CHANNEL", func(string, []byte) {})
	if !l.HasSubscribers("CHANNEL") {
		t.Fatal("expected a subscriber after Subscribe")
	}
}

func TestRegisterProviderForwardsToProviderPackage(t *testing.T) {
	RegisterProvider("memq-alias", newMemProvider)
	l, err := New("memq-alias://test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Close()
}

func TestTimedHandleWithNoFilenoFallsBackToHandle(t *testing.T) {
	l, err := New("memq://test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	l.Subscribe("CHANNEL", func(string, []byte) {})
	l.Publish("CHANNEL", []byte("x"))

	// memProvider.Fileno() returns -1, so TimedHandle degrades to an
	// untimed Handle and must still deliver the pending frame.
	ok, err := l.TimedHandle(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("TimedHandle: %v", err)
	}
	if !ok {
		t.Error("expected TimedHandle to report a frame was handled")
	}
}
