package headlines

import (
	"context"
	"fmt"
	"io"
	"time"
)

// DefaultFrame is how often Follow polls for a finished fetch.
const DefaultFrame = 100 * time.Millisecond

// Follow re-renders cards to w whenever a background fetch completes. A
// fetch starts immediately and then every refresh. Failed fetches keep the
// cards on screen. It returns when ctx is done.
func (h *Headlines) Follow(ctx context.Context, w io.Writer, refresh, frame time.Duration) error {
	if refresh <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	if frame <= 0 {
		frame = DefaultFrame
	}

	h.StartFetch(ctx)

	refreshTicker := time.NewTicker(refresh)
	defer refreshTicker.Stop()
	frameTicker := time.NewTicker(frame)
	defer frameTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refreshTicker.C:
			h.StartFetch(ctx)
		case <-frameTicker.C:
			changed, _ := h.Poll()
			if !changed {
				continue
			}
			if err := Render(w, h.Articles()); err != nil {
				return fmt.Errorf("render headlines: %w", err)
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("render headlines: %w", err)
			}
		}
	}
}
