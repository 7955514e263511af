// Package logs relays supervised command output to the console.
package logs

import (
	"sync"

	"github.com/charliek/runcheck/internal/domain"
	"go.uber.org/zap"
)

// Multiplexer drains the stdout and stderr line channels concurrently and
// prints every message in arrival order. It never drops a message: it runs
// until both channels are closed and empty.
type Multiplexer struct {
	printer *Printer
	stdout  <-chan domain.LineMessage
	stderr  <-chan domain.LineMessage
	log     *zap.SugaredLogger

	wg sync.WaitGroup
}

// NewMultiplexer creates a Multiplexer over the two line channels
func NewMultiplexer(printer *Printer, stdout, stderr <-chan domain.LineMessage, log *zap.SugaredLogger) *Multiplexer {
	return &Multiplexer{
		printer: printer,
		stdout:  stdout,
		stderr:  stderr,
		log:     log,
	}
}

// Start launches one drain goroutine per channel
func (m *Multiplexer) Start() {
	m.wg.Add(2)
	go m.drain(domain.StreamStdout, m.stdout)
	go m.drain(domain.StreamStderr, m.stderr)
}

// Wait blocks until both channels are closed and fully printed
func (m *Multiplexer) Wait() {
	m.wg.Wait()
}

func (m *Multiplexer) drain(stream domain.Stream, ch <-chan domain.LineMessage) {
	defer m.wg.Done()

	warned := false
	for msg := range ch {
		// A message always leaves on the stream of the channel it arrived on
		msg.Stream = stream
		if err := m.printer.Print(msg); err != nil && !warned {
			// Keep consuming so producers never block on a dead console
			m.log.Warnw("writing output failed", "stream", stream, "error", err)
			warned = true
		}
	}
}
