// Package watcher is the OS-facing edge of watchmux: it owns the fsnotify
// watcher, emulates recursive watches on top of fsnotify's per-directory
// model, coalesces raw notifications over a debounce window, and normalizes
// the result into the canonical create/change/delete vocabulary.
//
// The pipeline is:
//
//	fsnotify events → Backend.handle → debouncer (one batch per window)
//	    → deliver callback → Normalize → canonical []Event
//
// Key behaviors:
//   - Watch walks the root and registers every directory; directories
//     created later under a watched root are registered on arrival
//   - One batch per debounce window, order-preserving, FIFO across batches
//   - Rename halves are retyped (source → delete, destination → create,
//     optionally with a synthesized change) by Normalize
//   - Backend errors are reported on stderr and never stop the pump
//
// Example usage:
//
//	b, err := watcher.NewBackend(watcher.DefaultDebounce, func(batch []watcher.RawEvent) {
//		for _, ev := range watcher.Normalize(batch, true) {
//			fmt.Println(ev.Kind, ev.Path)
//		}
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	if err := b.Watch("/some/dir"); err != nil {
//		log.Fatal(err)
//	}
package watcher
