package protocol

import (
	"bufio"
	"fmt"
	"io"
)

// FlushSentinel is the literal line marking the end of a batch's output. The
// peer buffers event lines and acts on the whole batch when it arrives.
const FlushSentinel = "<flush>"

// Writer serializes event lines onto the output stream. Output is buffered;
// the buffer is flushed only when a batch ends with at least one line
// written, so idle batches wake nobody downstream.
//
// Writer is not safe for concurrent use. Batches are dispatched one at a
// time, which is the only ordering the protocol promises.
type Writer struct {
	w     *bufio.Writer
	wrote bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Event writes one "uid:kind:relative_path" line.
func (w *Writer) Event(uid int, kind, relPath string) error {
	if _, err := fmt.Fprintf(w.w, "%d:%s:%s\n", uid, kind, relPath); err != nil {
		return err
	}
	w.wrote = true
	return nil
}

// EndBatch closes out one debounce batch. If any event line was written
// since the last EndBatch, it appends the flush sentinel and flushes the
// buffer, reporting wrote=true; otherwise it does nothing.
func (w *Writer) EndBatch() (wrote bool, err error) {
	if !w.wrote {
		return false, nil
	}
	w.wrote = false
	if _, err := fmt.Fprintln(w.w, FlushSentinel); err != nil {
		return true, err
	}
	return true, w.w.Flush()
}
