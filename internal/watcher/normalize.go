package watcher

// Normalize rewrites one debounced batch of raw events into the canonical
// create/change/delete vocabulary. Batch order is preserved: events derived
// from one raw event are spliced where that raw event sat, never reordered
// against independent events in the same batch.
//
// Rename halves are retyped rather than dropped: an orphaned source half is
// a delete, an orphaned destination half is a create. When synthChange is
// set, an orphaned destination half additionally yields a change event right
// after its create — editors that save through a temp-file rename produce
// exactly this shape, and consumers expect to re-read content after it. A
// full rename (both halves observed) is a delete of the source followed by a
// create of the destination, with no synthesized change.
func Normalize(batch []RawEvent, synthChange bool) []Event {
	out := make([]Event, 0, len(batch))
	for _, raw := range batch {
		switch raw.Kind {
		case RawCreate:
			out = append(out, Event{Kind: Create, Path: raw.Path})
		case RawModify:
			out = append(out, Event{Kind: Change, Path: raw.Path})
		case RawRemove:
			out = append(out, Event{Kind: Delete, Path: raw.Path})
		case RawRenameFrom:
			out = append(out, Event{Kind: Delete, Path: raw.Path})
		case RawRenameTo:
			out = append(out, Event{Kind: Create, Path: raw.Path})
			if synthChange {
				out = append(out, Event{Kind: Change, Path: raw.Path})
			}
		case RawRenameBoth:
			out = append(out, Event{Kind: Delete, Path: raw.Path})
			out = append(out, Event{Kind: Create, Path: raw.Dest})
		default:
			// Attribute and access noise produces nothing.
		}
	}
	return out
}
