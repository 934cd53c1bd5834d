// Package service is the process core: it owns the subscription registry and
// the watched-root set behind one lock, applies control messages from the
// inbound stream, and turns debounced raw batches from the watch backend
// into filtered output lines.
//
// Two flows of control touch the shared state: the control loop (Run, driven
// by stdin) and the backend's debounce callback (HandleBatch, on the
// backend's goroutine). One mutex covers both structures as a unit, held for
// one message application or one batch dispatch at a time — and never across
// an OS watch install or teardown, which can take unbounded time on large
// trees. The narrow window where a concurrent batch does not yet see a
// just-added root is harmless: no events arrive for a root before its watch
// exists.
package service

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/blackwell-systems/watchmux/internal/journal"
	"github.com/blackwell-systems/watchmux/internal/protocol"
	"github.com/blackwell-systems/watchmux/internal/subscription"
	"github.com/blackwell-systems/watchmux/internal/watcher"
)

// WatchBackend is the slice of the OS watch layer the service drives.
// Implemented by *watcher.Backend; tests substitute a recorder.
type WatchBackend interface {
	Watch(root string) error
	Unwatch(root string) error
}

// Options configures a Service.
type Options struct {
	// SynthChange emits a synthetic change event after the create produced
	// by an orphaned rename destination. On by default in the CLI; off
	// reproduces the older behavior some consumers expect.
	SynthChange bool
	// Journal, when non-nil, records every delivered event line.
	Journal *journal.Journal
}

// Service multiplexes subscriptions over the watch backend and serializes
// matched events to the output stream.
type Service struct {
	out         *protocol.Writer
	jrnl        *journal.Journal
	synthChange bool

	mu       sync.Mutex
	reg      *subscription.Registry
	roots    *subscription.RootSet
	batchSeq int64

	backend WatchBackend
}

// New creates a Service writing event lines to out. A watch backend must be
// attached before Run; the split exists because the backend's delivery
// callback is the service's own HandleBatch.
func New(out io.Writer, opts Options) *Service {
	return &Service{
		out:         protocol.NewWriter(out),
		jrnl:        opts.Journal,
		synthChange: opts.SynthChange,
		reg:         subscription.NewRegistry(),
		roots:       subscription.NewRootSet(),
	}
}

// Attach wires the watch backend the service will install watches on.
func (s *Service) Attach(b WatchBackend) {
	s.backend = b
}

// Run reads control messages from in until EOF, applying each fully before
// reading the next. A framing error (unparseable line) is returned and is
// fatal to the process; request-level failures are diagnostics and do not
// stop the loop.
func (s *Service) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		req, err := protocol.ParseRequest(line)
		if err != nil {
			return err
		}
		if err := s.apply(req); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read control stream: %w", err)
	}
	return nil
}

func (s *Service) apply(req *protocol.Request) error {
	if req.Register != nil {
		return s.register(req.Register)
	}
	s.unregister(*req.Unregister)
	return nil
}

// register applies one register message. Only an unknown event-kind name is
// an error (the control schema is a closed vocabulary, so that is framing
// desync); every other failure is a diagnostic that rejects just this
// request.
func (s *Service) register(msg *protocol.Register) error {
	var events watcher.KindSet
	for _, name := range msg.Events {
		kind, ok := watcher.ParseKind(name)
		if !ok {
			return fmt.Errorf("unknown event kind %q in register for ID %d", name, msg.UID)
		}
		events.Add(kind)
	}

	sub, err := subscription.New(msg.UID, msg.Cwd, events, msg.Patterns, msg.Ignores)
	if err != nil {
		log.Printf("register ID %d: %v", msg.UID, err)
		return nil
	}

	s.mu.Lock()
	if err := s.reg.Register(sub); err != nil {
		s.mu.Unlock()
		log.Printf("watcher with ID %d already exists", msg.UID)
		return nil
	}
	action := s.roots.Add(sub.Root)
	s.mu.Unlock()

	if action != subscription.ActionInstall {
		return nil
	}

	// The install happens outside the lock; on failure the registration is
	// rolled back. Nothing was installed, so the uninstall targets the
	// rollback reports are ignored.
	if err := s.backend.Watch(sub.Root); err != nil {
		log.Printf("failed to watch on path: %v", err)
		s.mu.Lock()
		s.reg.Unregister(sub.UID) //nolint:errcheck
		s.roots.Remove(sub.Root)
		s.mu.Unlock()
	}
	return nil
}

// unregister applies one unregister message. Unknown ids are diagnostics;
// a duplicate unregister therefore never reaches the root refcounts.
func (s *Service) unregister(uid int) {
	s.mu.Lock()
	sub, err := s.reg.Unregister(uid)
	if err != nil {
		s.mu.Unlock()
		log.Printf("watcher with ID %d not found", uid)
		return
	}
	targets := s.roots.Remove(sub.Root)
	s.mu.Unlock()

	for _, root := range targets {
		if err := s.backend.Unwatch(root); err != nil {
			log.Printf("failed to unwatch path %s: %v", root, err)
		}
	}
}
