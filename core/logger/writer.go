package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

type writeReq struct {
	data []byte
	ack  chan error
}

// asyncWriter fans log lines out to several sinks from a single goroutine.
// Sinks are flushed whenever the queue drains and on explicit Flush.
type asyncWriter struct {
	queue chan writeReq
	done  chan struct{}
	sinks []*bufio.Writer

	mu     sync.RWMutex
	closed bool
	errMu  sync.Mutex
	err    error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		queue: make(chan writeReq, 256),
		done:  make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.loop()
	return w
}

func (w *asyncWriter) loop() {
	defer close(w.done)
	for req := range w.queue {
		if req.ack != nil {
			req.ack <- w.flushAll()
			continue
		}
		for _, sink := range w.sinks {
			if _, err := sink.Write(req.data); err != nil {
				w.setErr(err)
			}
		}
		if len(w.queue) == 0 {
			if err := w.flushAll(); err != nil {
				w.setErr(err)
			}
		}
	}
	if err := w.flushAll(); err != nil {
		w.setErr(err)
	}
}

// Write enqueues a copy of p. It blocks when the queue is full rather than drop lines.
func (w *asyncWriter) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := w.getErr(); err != nil {
		return err
	}
	data := append([]byte(nil), p...)

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return errors.New("logger: writer closed")
	}
	w.queue <- writeReq{data: data}
	return nil
}

// Flush waits until every queued line has reached the sinks.
func (w *asyncWriter) Flush() error {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return w.getErr()
	}
	ack := make(chan error, 1)
	w.queue <- writeReq{ack: ack}
	w.mu.RUnlock()
	return <-ack
}

// Close drains the queue and reports the first write error.
func (w *asyncWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
	return w.getErr()
}

func (w *asyncWriter) flushAll() error {
	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) getErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *asyncWriter) setErr(err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}
