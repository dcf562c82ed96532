// Package sound plays the countdown completion cue.
package sound

import (
	"github.com/gen2brain/beeep"
)

// Player plays a short audible cue.
type Player interface {
	Play() error
}

// Beeper rings the system bell through beeep.
type Beeper struct {
	Freq     float64
	Duration int // milliseconds
}

func NewBeeper() Beeper {
	return Beeper{Freq: beeep.DefaultFreq, Duration: beeep.DefaultDuration}
}

func (b Beeper) Play() error {
	return beeep.Beep(b.Freq, b.Duration)
}

// Silent never makes a sound.
type Silent struct{}

func (Silent) Play() error { return nil }
