package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/tapedeck/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

// addTailFlags registers the event output flags on cmd.
func addTailFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	cmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	cmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	cmd.Flags().DurationVarP(&tailInterval, "interval", "i", 250*time.Millisecond, "poll interval")
}

func newFormatter() *tail.Formatter {
	return tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)
}

// followEvents prints playback events from source until ctx is done or
// stop is closed.
func followEvents(ctx context.Context, source tail.SessionSource, stop <-chan struct{}, out io.Writer) error {
	formatter := newFormatter()
	enc := json.NewEncoder(out)

	emit := func(e tail.Event) {
		if JSONOutput() {
			_ = enc.Encode(tail.NewRecord(e))
			return
		}
		fmt.Fprintln(out, formatter.Format(e))
	}

	// Show the current track on startup
	curr := source.Snapshot()
	if curr.Track != nil {
		emit(tail.Event{
			Type:      tail.EventTrackChange,
			Timestamp: time.Now(),
			Current:   &curr,
		})
	}

	watcher := tail.NewWatcher(source, tailInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			emit(event)

		case <-stop:
			watcher.Stop()
			return nil

		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}
