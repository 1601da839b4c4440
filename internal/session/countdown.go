package session

import (
	"context"
	"fmt"
	"time"
)

// Countdown measures time left until a server-supplied deadline. It is
// display only: reaching zero does not cancel anything.
type Countdown struct {
	deadline time.Time
	now      func() time.Time
}

// NewCountdown returns a countdown to deadline using the wall clock.
func NewCountdown(deadline time.Time) *Countdown {
	return &Countdown{deadline: deadline, now: time.Now}
}

// Remaining returns the time left, never negative.
func (c *Countdown) Remaining() time.Duration {
	left := c.deadline.Sub(c.now())
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the deadline has passed.
func (c *Countdown) Expired() bool {
	return c.Remaining() == 0
}

// Format renders the remaining time as m:ss.
func (c *Countdown) Format() string {
	secs := int(c.Remaining() / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Watch calls fn with the formatted remaining time every interval until the
// countdown expires or ctx is done. fn is called once immediately and once
// more with "0:00" on expiry.
func (c *Countdown) Watch(ctx context.Context, interval time.Duration, fn func(string)) {
	fn(c.Format())
	if c.Expired() {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(c.Format())
			if c.Expired() {
				return
			}
		}
	}
}
