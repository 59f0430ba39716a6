package lcm

import (
	"regexp"
	"strings"
	"sync"

	"github.com/lcm-go/lcm/pkg/lcmerr"
)

// Handler receives a decoded frame for a channel its subscription matched.
type Handler func(channel string, data []byte)

// Subscription is the opaque handle returned by subscribe. Its fields are
// unexported; callers hold it only to pass back to unsubscribe.
type Subscription struct {
	pattern string
	exact   bool           // fast path: pattern has no regex metacharacters
	regex   *regexp.Regexp // nil when exact is true
	handler Handler

	inDispatch    bool
	pendingDelete bool
}

// registry is the subscription table behind the runtime facade (spec §4.E),
// grounded on lcm.c's lcm_subscribe/lcm_unsubscribe/lcm_get_handlers/
// lcm_dispatch_handlers. Every exported method acquires mu for its whole
// call; internal helpers named *Locked assume the caller already holds it.
// This stands in for the C implementation's GStaticRecMutex without
// needing a re-entrant lock type in Go: nothing here calls back into a
// locking method while already holding mu.
type registry struct {
	mu sync.Mutex

	all []*Subscription

	// byChannel caches, per channel name, the subscriptions that match it.
	// Populated lazily on first observation of a channel and never
	// invalidated by a later subscribe to an already-cached channel — a
	// new subscribe appends directly into every matching cached entry.
	byChannel map[string][]*Subscription
}

func newRegistry() *registry {
	return &registry{byChannel: make(map[string][]*Subscription)}
}

// subscribe compiles pattern as an anchored extended regex (no substring
// matches) unless it contains no regex metacharacters, in which case it is
// stored for a plain string comparison instead — an internal optimization
// with identical externally observable match semantics to the general
// regex path.
func (r *registry) subscribe(pattern string, h Handler) (*Subscription, error) {
	sub := &Subscription{pattern: pattern, handler: h}

	if hasRegexMeta(pattern) {
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return nil, lcmerr.Wrapf(lcmerr.Regex, "subscribe", err, "compiling pattern %q", pattern)
		}
		sub.regex = re
	} else {
		sub.exact = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.all = append(r.all, sub)
	for channel, handlers := range r.byChannel {
		if matchesChannel(sub, channel) {
			r.byChannel[channel] = append(handlers, sub)
		}
	}
	return sub, nil
}

// unsubscribe removes sub. If sub is not currently being dispatched it is
// removed immediately; otherwise it is marked pendingDelete and dispatch
// finalizes the removal once the in-flight frame has been delivered to
// every handler.
func (r *registry) unsubscribe(sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := indexOf(r.all, sub)
	if idx < 0 {
		return lcmerr.New(lcmerr.NotFound, "unsubscribe", "subscription not registered")
	}

	if sub.inDispatch {
		sub.pendingDelete = true
		return nil
	}

	r.all = append(r.all[:idx], r.all[idx+1:]...)
	r.removeFromChannelCacheLocked(sub)
	return nil
}

// clear unsubscribes every remaining handler, matching the destruction
// contract: a closed LCM leaves no handler reachable afterward.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.all = nil
	r.byChannel = make(map[string][]*Subscription)
}

func (r *registry) removeFromChannelCacheLocked(sub *Subscription) {
	for channel, handlers := range r.byChannel {
		if i := indexOf(handlers, sub); i >= 0 {
			r.byChannel[channel] = append(handlers[:i], handlers[i+1:]...)
		}
	}
}

func (r *registry) getHandlersLocked(channel string) []*Subscription {
	if handlers, ok := r.byChannel[channel]; ok {
		return handlers
	}
	var handlers []*Subscription
	for _, sub := range r.all {
		if matchesChannel(sub, channel) {
			handlers = append(handlers, sub)
		}
	}
	r.byChannel[channel] = handlers
	return handlers
}

// hasHandlers reports whether channel currently has at least one matching
// subscriber, without dispatching anything.
func (r *registry) hasHandlers(channel string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.getHandlersLocked(channel)) > 0
}

// dispatch resolves channel's matching handlers, snapshots them so that
// subscribes/unsubscribes triggered from within a handler cannot perturb
// this frame's iteration, invokes each (in subscribe order) with the lock
// released, then reaps any handler that unsubscribed itself or another
// mid-dispatch.
func (r *registry) dispatch(channel string, data []byte) {
	r.mu.Lock()
	live := r.getHandlersLocked(channel)
	snapshot := make([]*Subscription, len(live))
	copy(snapshot, live)
	for _, sub := range snapshot {
		sub.inDispatch = true
	}
	r.mu.Unlock()

	for _, sub := range snapshot {
		if !sub.pendingDelete {
			sub.handler(channel, data)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range snapshot {
		sub.inDispatch = false
		if sub.pendingDelete {
			if i := indexOf(r.all, sub); i >= 0 {
				r.all = append(r.all[:i], r.all[i+1:]...)
			}
			r.removeFromChannelCacheLocked(sub)
		}
	}
}

func matchesChannel(sub *Subscription, channel string) bool {
	if sub.exact {
		return sub.pattern == channel
	}
	return sub.regex.MatchString(channel)
}

func indexOf(subs []*Subscription, target *Subscription) int {
	for i, s := range subs {
		if s == target {
			return i
		}
	}
	return -1
}

// hasRegexMeta reports whether s contains a character that is special in
// extended regex syntax, disqualifying it from the exact-match fast path.
func hasRegexMeta(s string) bool {
	return strings.ContainsAny(s, `.*+?[](){}|^$\`)
}
