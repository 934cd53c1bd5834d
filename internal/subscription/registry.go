package subscription

import (
	"errors"
	"sort"
)

var (
	// ErrDuplicateID rejects a register request whose uid is already taken.
	ErrDuplicateID = errors.New("subscription id already registered")
	// ErrNotFound rejects an unregister request for an unknown uid.
	ErrNotFound = errors.New("subscription not found")
)

// Registry maps subscription ids to their configurations. Iteration order is
// ascending uid, which is what makes multi-subscription output deterministic
// within a batch.
type Registry struct {
	subs map[int]*Subscription
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[int]*Subscription)}
}

// Register inserts sub. A duplicate uid is an error and leaves the existing
// subscription untouched.
func (r *Registry) Register(sub *Subscription) error {
	if _, ok := r.subs[sub.UID]; ok {
		return ErrDuplicateID
	}
	r.subs[sub.UID] = sub
	return nil
}

// Unregister removes and returns the subscription with the given uid.
func (r *Registry) Unregister(uid int) (*Subscription, error) {
	sub, ok := r.subs[uid]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.subs, uid)
	return sub, nil
}

// Snapshot returns the active subscriptions in ascending uid order. The
// slice is freshly allocated; the subscriptions themselves are immutable.
func (r *Registry) Snapshot() []*Subscription {
	out := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

// Len reports the number of active subscriptions.
func (r *Registry) Len() int {
	return len(r.subs)
}
