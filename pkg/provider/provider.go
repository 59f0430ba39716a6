// Package provider defines the abstract transport contract that every LCM
// wire transport (UDP multicast, a future TCP or file-replay transport)
// implements, plus the URL parsing and scheme registry the runtime uses to
// pick one (spec §4.F).
package provider

import (
	"os"
	"strings"

	"github.com/lcm-go/lcm/pkg/lcmerr"
)

// DefaultURL is used when the caller passes an empty URL to New and the
// LCM_DEFAULT_URL environment variable is also unset.
const DefaultURL = "udpm://239.255.76.67:7667"

// Dispatcher is invoked by a Provider once per received frame. It is the
// runtime's registry dispatch entry point; the provider does not interpret
// frame contents beyond handing them off.
type Dispatcher func(channel string, frame []byte)

// Provider is the abstract transport contract (spec §4.F). A transport
// implementation is constructed by a Factory and is destroyed exactly once
// via Close.
type Provider interface {
	// Publish sends frame on channel. Best-effort: the runtime does not
	// retry or block waiting for delivery confirmation.
	Publish(channel string, frame []byte) error

	// Handle blocks until at least one frame has been received and
	// dispatched, or returns a non-nil error on an unrecoverable transport
	// failure. Exactly one frame is dispatched per call.
	Handle() error

	// Fileno returns a readable file descriptor that becomes ready when at
	// least one frame is pending, for external event-loop integration, or
	// -1 if the transport does not expose one.
	Fileno() int

	// Close frees transport resources. Must be callable exactly once.
	Close() error
}

// Factory constructs a Provider for target (the URL's host/path portion)
// and args (its query parameters), wiring frame delivery through dispatch.
type Factory func(target string, args map[string]string, dispatch Dispatcher) (Provider, error)

var factories = make(map[string]Factory)

// Register adds a Factory under scheme (e.g. "udpm"). Intended to be called
// from an init() in the transport's package, or by a caller wiring in a
// custom transport without forking this package.
func Register(scheme string, f Factory) {
	factories[scheme] = f
}

// Get returns the Factory registered for scheme, if any.
func Get(scheme string) (Factory, bool) {
	f, ok := factories[scheme]
	return f, ok
}

// URL is a parsed provider URL: scheme://target?k=v&k=v (spec §4.F).
type URL struct {
	Scheme string
	Target string
	Args   map[string]string
}

// ParseURL parses a provider URL. An empty raw string resolves to
// LCM_DEFAULT_URL if set, else DefaultURL. Malformed URLs fail with kind
// lcmerr.URL. Unrecognised query arguments are not an error here — the
// provider itself decides which arguments it understands.
func ParseURL(raw string) (*URL, error) {
	if raw == "" {
		if env := os.Getenv("LCM_DEFAULT_URL"); env != "" {
			raw = env
		} else {
			raw = DefaultURL
		}
	}

	schemeAndRest := strings.SplitN(raw, "://", 2)
	if len(schemeAndRest) != 2 {
		return nil, lcmerr.New(lcmerr.URL, "ParseURL", "missing scheme separator \"://\" in "+raw)
	}
	scheme := schemeAndRest[0]
	if scheme == "" {
		return nil, lcmerr.New(lcmerr.URL, "ParseURL", "empty scheme in "+raw)
	}

	rest := schemeAndRest[1]
	target := rest
	args := make(map[string]string)

	if i := strings.IndexByte(rest, '?'); i >= 0 {
		target = rest[:i]
		query := rest[i+1:]
		for _, pair := range splitArgs(query) {
			if pair == "" {
				continue
			}
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) == 2 {
				args[kv[0]] = kv[1]
			} else {
				args[kv[0]] = ""
			}
		}
	}

	return &URL{Scheme: scheme, Target: target, Args: args}, nil
}

// splitArgs splits a query string on both ',' and '&' (spec §4.F).
func splitArgs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '&'
	})
}
