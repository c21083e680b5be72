package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/docchat-labs/docchat/internal/core/domain"
	"github.com/docchat-labs/docchat/internal/core/ports/driven"
)

// flusher is implemented by writers that can push buffered bytes to the
// consumer immediately (http.Flusher-style response writers).
type flusher interface {
	Flush()
}

// Relay forwards the upstream token stream to w, one delta at a time.
// Empty deltas are skipped; non-empty ones are written the moment they
// arrive, in arrival order, flushing after each when w supports it.
//
// Relay returns nil only after the upstream is cleanly exhausted. An
// upstream failure mid-stream returns a *domain.StreamError so callers
// can distinguish "answer complete" from "answer aborted". The upstream
// stream is always closed.
//
// Recv is pull-based, so a slow consumer suspends upstream consumption
// naturally; nothing is queued beyond the single delta in flight.
func Relay(w io.Writer, stream driven.CompletionStream) error {
	defer stream.Close()

	f, _ := w.(flusher)

	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &domain.StreamError{Err: err}
		}
		if delta == "" {
			continue
		}

		if _, err := io.WriteString(w, delta); err != nil {
			return fmt.Errorf("write delta: %w", err)
		}
		if f != nil {
			f.Flush()
		}
	}
}
