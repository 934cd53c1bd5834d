package service

import (
	"log"

	"github.com/blackwell-systems/watchmux/internal/journal"
	"github.com/blackwell-systems/watchmux/internal/watcher"
)

// HandleBatch is the watch backend's delivery callback: it normalizes one
// debounced raw batch and dispatches the canonical events to every matching
// subscription, in batch order and ascending uid order — the full ordering
// contract of the output stream.
//
// The state lock is held for the whole dispatch, so a subscription
// unregistered mid-batch was either dispatched to entirely or not at all;
// unregistering never claws back lines already written in this batch.
func (s *Service) HandleBatch(batch []watcher.RawEvent) {
	events := watcher.Normalize(batch, s.synthChange)

	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.reg.Snapshot()
	var entries []journal.Entry

	for _, ev := range events {
		kind := ev.Kind.String()
		for _, sub := range subs {
			if !sub.Events.Has(ev.Kind) {
				continue
			}
			if !sub.Matcher.Match(ev.Path) {
				continue
			}
			// During root teardown an in-flight event can reference a path
			// outside every surviving root; those are skipped, not errors.
			rel, ok := sub.Relative(ev.Path)
			if !ok {
				continue
			}
			if err := s.out.Event(sub.UID, kind, rel); err != nil {
				log.Printf("write event line: %v", err)
				return
			}
			if s.jrnl != nil {
				entries = append(entries, journal.Entry{UID: sub.UID, Kind: kind, Path: rel})
			}
		}
	}

	wrote, err := s.out.EndBatch()
	if err != nil {
		log.Printf("flush output: %v", err)
		return
	}
	if wrote && s.jrnl != nil {
		s.batchSeq++
		if err := s.jrnl.RecordBatch(s.batchSeq, entries); err != nil {
			log.Printf("%v", err)
		}
	}
}
