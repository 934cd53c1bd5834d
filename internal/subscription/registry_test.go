package subscription

import (
	"errors"
	"testing"
)

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	first := &Subscription{UID: 1, Root: "/a"}
	if err := r.Register(first); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := r.Register(&Subscription{UID: 1, Root: "/b"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Register(duplicate) error = %v, want ErrDuplicateID", err)
	}

	// The original must be untouched by the rejected duplicate.
	subs := r.Snapshot()
	if len(subs) != 1 || subs[0] != first {
		t.Errorf("Snapshot() = %v, want the original subscription only", subs)
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	sub := &Subscription{UID: 7, Root: "/a"}
	if err := r.Register(sub); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := r.Unregister(7)
	if err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if got != sub {
		t.Errorf("Unregister() = %v, want the registered subscription", got)
	}

	// Second unregister of the same id reports not found.
	if _, err := r.Unregister(7); !errors.Is(err, ErrNotFound) {
		t.Errorf("Unregister(gone) error = %v, want ErrNotFound", err)
	}
}

func TestRegistrySnapshotOrder(t *testing.T) {
	r := NewRegistry()
	for _, uid := range []int{5, 1, 9, 3} {
		if err := r.Register(&Subscription{UID: uid}); err != nil {
			t.Fatalf("Register(%d) error = %v", uid, err)
		}
	}

	subs := r.Snapshot()
	want := []int{1, 3, 5, 9}
	if len(subs) != len(want) {
		t.Fatalf("Snapshot() len = %d, want %d", len(subs), len(want))
	}
	for i, uid := range want {
		if subs[i].UID != uid {
			t.Errorf("Snapshot()[%d].UID = %d, want %d", i, subs[i].UID, uid)
		}
	}
}
