package supervisor

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charliek/runcheck/internal/constants"
	"github.com/charliek/runcheck/internal/domain"
	"go.uber.org/zap"
)

// pump forwards every line of r to out, tagged with role and stream. It
// returns once r reaches EOF, which normally means the child tree is gone.
// Undecodable lines and read errors are logged, never fatal.
func pump(role domain.Role, stream domain.Stream, r io.ReadCloser, out chan<- domain.LineMessage, log *zap.SugaredLogger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, constants.ScannerBufferSize), constants.ScannerMaxBufferSize)
	scanner.Split(splitLines(constants.ScannerMaxBufferSize))

	for scanner.Scan() {
		line := scanner.Text()
		if !utf8.ValidString(line) {
			log.Debugw("forwarding undecodable line unmodified",
				"role", role, "stream", stream, "error", domain.ErrReadDecode)
		}
		out <- domain.LineMessage{Role: role, Stream: stream, Text: line}
	}

	if err := scanner.Err(); err != nil {
		log.Warnw("output reader error, discarding the rest of the stream",
			"role", role, "stream", stream, "error", err)
		// Keep the pipe drained so the child never blocks on a full buffer
		_, _ = io.Copy(io.Discard, r)
	}

	if err := r.Close(); err != nil {
		return fmt.Errorf("closing %s %s: %w", role.Command(), stream, err)
	}
	return nil
}

// splitLines behaves like bufio.ScanLines but emits limit-sized chunks for
// lines that would not fit in the scanner buffer.
func splitLines(limit int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)
		if advance == 0 && token == nil && err == nil && len(data) >= limit {
			return limit, data[:limit], nil
		}
		return advance, token, err
	}
}
