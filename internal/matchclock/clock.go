// Package matchclock tracks the remaining time of a day-boundary match: the
// match always ends at the next UTC 23:59:59.999, not a fixed duration from
// start. A local per-second fallback keeps the countdown moving while the
// authoritative server timer reconciles it whenever a message arrives.
package matchclock

import (
	"fmt"
	"math"
	"time"

	"github.com/noleforte/DRAW-sub001/logging"
)

// State is the match lifecycle. Ended is terminal.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Severity tiers drive the countdown display treatment.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityUrgent
)

const (
	// MatchDuration is the nominal length of a full match day in seconds.
	MatchDuration = 86400

	urgentThreshold  = 3600
	warningThreshold = 7200
)

// Clock reconciles the local wall clock against the authoritative server
// timer. It is driven cooperatively: TickLocal once per second, ApplyTimer
// whenever a server message arrives.
type Clock struct {
	clock logging.Clock

	state    State
	timeLeft int64
	// serverOffset is client-minus-server skew in milliseconds.
	serverOffset int64
	// authoritative marks timeLeft as server-provided until the next local tick.
	authoritative bool
}

// New constructs an idle match clock.
func New(clock logging.Clock) *Clock {
	if clock == nil {
		clock = logging.SystemClock{}
	}
	return &Clock{clock: clock}
}

// State returns the current lifecycle state.
func (c *Clock) State() State {
	return c.state
}

// TimeLeft returns the remaining whole seconds.
func (c *Clock) TimeLeft() int64 {
	return c.timeLeft
}

// ServerOffset returns the client-minus-server skew in milliseconds.
func (c *Clock) ServerOffset() int64 {
	return c.serverOffset
}

// Start transitions Idle -> Running, resetting the countdown from the local
// wall clock and zeroing the measured skew. Restarting a running clock resets
// it the same way; an ended clock stays ended.
func (c *Clock) Start() {
	if c.state == StateEnded {
		return
	}
	c.state = StateRunning
	c.serverOffset = 0
	c.authoritative = false
	c.timeLeft = SecondsUntilDayEnd(c.clock.Now())
	c.checkExpired()
}

// TickLocal recomputes the countdown from the local wall clock. It is the
// fallback path and yields to an authoritative value for one tick after a
// server message.
func (c *Clock) TickLocal() {
	if c.state != StateRunning {
		return
	}
	if c.authoritative {
		c.authoritative = false
		return
	}
	c.timeLeft = SecondsUntilDayEnd(c.clock.Now())
	c.checkExpired()
}

// ApplyTimer adopts an authoritative {timeLeft, serverTime} message, updating
// the measured clock skew and overriding the local fallback until its next
// tick.
func (c *Clock) ApplyTimer(timeLeft float64, serverTimeMillis int64) {
	if c.state != StateRunning {
		return
	}
	c.serverOffset = c.clock.Now().UnixMilli() - serverTimeMillis
	if math.IsNaN(timeLeft) || timeLeft < 0 {
		timeLeft = 0
	}
	c.timeLeft = int64(timeLeft)
	c.authoritative = true
	c.checkExpired()
}

// End forces the terminal state, used when the server announces the result.
func (c *Clock) End() {
	c.state = StateEnded
	if c.timeLeft < 0 {
		c.timeLeft = 0
	}
}

// Ended reports whether the match reached its terminal state.
func (c *Clock) Ended() bool {
	return c.state == StateEnded
}

func (c *Clock) checkExpired() {
	if c.timeLeft <= 0 {
		c.timeLeft = 0
		c.state = StateEnded
	}
}

// Severity returns the display tier for the current countdown. The boundary
// hour itself still counts as warning; urgent starts strictly inside it.
func (c *Clock) Severity() Severity {
	switch {
	case c.timeLeft < urgentThreshold:
		return SeverityUrgent
	case c.timeLeft <= warningThreshold:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// Countdown formats the remaining time as HH:MM:SS.
func (c *Clock) Countdown() string {
	remaining := c.timeLeft
	if remaining < 0 {
		remaining = 0
	}
	hours := remaining / 3600
	minutes := (remaining % 3600) / 60
	seconds := remaining % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// SecondsUntilDayEnd returns the whole seconds from now until the next UTC
// 23:59:59.999 boundary, rounding the trailing millisecond up so a full hour
// reads as exactly 3600.
func SecondsUntilDayEnd(now time.Time) int64 {
	utc := now.UTC()
	end := time.Date(utc.Year(), utc.Month(), utc.Day(), 23, 59, 59, 999_000_000, time.UTC)
	if !end.After(utc) {
		end = end.Add(24 * time.Hour)
	}
	millis := end.Sub(utc).Milliseconds()
	return (millis + 999) / 1000
}
