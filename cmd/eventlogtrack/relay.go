package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

const maxLineSize = 1 << 20

type eventLogger interface {
	LogEvent(ctx context.Context, rec model.EventRecord)
}

// relay feeds every NDJSON record read from r to each tracker. Malformed
// lines are logged and skipped. Returns nil at EOF and ctx.Err() on
// cancellation.
func relay(ctx context.Context, r io.Reader, trackers []eventLogger, logger zerolog.Logger) error {
	lines := make(chan []byte)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			errCh <- fmt.Errorf("relay: read input: %w", err)
		}
	}()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			n++
			if len(line) == 0 {
				continue
			}
			var rec model.EventRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				logger.Warn().Err(err).Int("line", n).Msg("skipping malformed event record")
				continue
			}
			for _, t := range trackers {
				t.LogEvent(ctx, rec)
			}
		}
	}
}
