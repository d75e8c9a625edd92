package logger

import (
	"bufio"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// lineWriter fans complete log lines out to one or more buffered sinks.
// Writes are synchronous; every line is flushed so tail -f stays useful.
type lineWriter struct {
	mu      sync.Mutex
	sinks   []*bufio.Writer
	closers []io.Closer
	err     error
}

func newLineWriter(writers []io.Writer, closers []io.Closer) *lineWriter {
	sinks := make([]*bufio.Writer, 0, len(writers))
	for _, w := range writers {
		if w == nil {
			continue
		}
		sinks = append(sinks, bufio.NewWriterSize(w, 16*1024))
	}
	return &lineWriter{sinks: sinks, closers: closers}
}

// Write fans the payload out to all sinks, retaining the first error seen.
func (w *lineWriter) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	for _, sink := range w.sinks {
		if _, err := sink.Write(p); err != nil {
			w.err = err
			return err
		}
		if err := sink.Flush(); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Flush forces buffered content out of every sink.
func (w *lineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs *multierror.Error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Close flushes and closes any closable sinks (log files, not stdout).
func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs *multierror.Error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	for _, c := range w.closers {
		if err := c.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
