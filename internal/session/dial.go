package session

import "time"

type Wheel int

const (
	HoursWheel Wheel = iota
	MinutesWheel
)

const (
	maxHours   = 23
	maxMinutes = 59
)

// Dial is the two-wheel duration picker. While a wheel is being scrolled its
// values are authoritative; once settled, Sync keeps the wheels matched to
// the engine's planned duration.
type Dial struct {
	Hours     int
	Minutes   int
	scrolling bool
	seq       int
}

func NewDial(d time.Duration) Dial {
	var dl Dial
	dl.Sync(d)
	return dl
}

// Scroll moves a wheel by delta entries. It returns the combined duration and
// whether the wheel value changed.
func (d *Dial) Scroll(w Wheel, delta int) (time.Duration, bool) {
	if w == HoursWheel {
		return d.set(w, d.Hours+delta)
	}
	return d.set(w, d.Minutes+delta)
}

func (d *Dial) set(w Wheel, v int) (time.Duration, bool) {
	d.scrolling = true
	d.seq++

	limit := maxMinutes
	cur := &d.Minutes
	if w == HoursWheel {
		limit = maxHours
		cur = &d.Hours
	}
	v = clamp(v, 0, limit)
	changed := v != *cur
	*cur = v
	return d.Duration(), changed
}

// Seq identifies the latest scroll so a delayed settle can tell whether
// scrolling continued after it was scheduled.
func (d Dial) Seq() int { return d.seq }

// Settle ends the scroll started by seq. Later scrolls keep it active.
func (d *Dial) Settle(seq int) bool {
	if seq != d.seq {
		return false
	}
	d.scrolling = false
	return true
}

func (d Dial) Scrolling() bool { return d.scrolling }

// Sync sets both wheels from a duration. Ignored mid-scroll.
func (d *Dial) Sync(total time.Duration) bool {
	if d.scrolling {
		return false
	}
	mins := int(total / time.Minute)
	d.Hours = clamp(mins/60, 0, maxHours)
	d.Minutes = mins % 60
	return true
}

func (d Dial) Duration() time.Duration {
	return time.Duration(d.Hours)*time.Hour + time.Duration(d.Minutes)*time.Minute
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
