// Package phrase segments the live event stream into closed raw phrases and
// reduces them to canonical step sequences.
package phrase

import (
	"context"
	"time"

	"github.com/melodychess/cantus/internal/key"
	"github.com/melodychess/cantus/sdk/contracts"
)

// Capture is the phrase-boundary state machine. It is the sole consumer of
// the device event channel; the driver callback is the sole producer. Idle
// means no phrase is open; the first Note On moves it to Collecting, and a
// pedal release past the structural threshold or a long enough silence moves
// it back, emitting the collected phrase.
type Capture struct {
	events <-chan contracts.MIDI
	keys   *key.Context
	cfg    contracts.CaptureConfig
	logger contracts.Logger

	open      []contracts.PhraseEvent
	openAt    map[contracts.Pitch]int // sounding pitch -> index into open
	pedalDown bool
	lastOnset time.Time
	epoch     time.Time

	now func() time.Time // test seam
}

// NewCapture wires the state machine to a device event channel.
func NewCapture(events <-chan contracts.MIDI, keys *key.Context, cfg contracts.CaptureConfig, log contracts.Logger) *Capture {
	return &Capture{
		events: events,
		keys:   keys,
		cfg:    cfg,
		logger: log,
		openAt: make(map[contracts.Pitch]int),
		epoch:  time.Now(),
		now:    time.Now,
	}
}

// Next blocks until a phrase closes and returns it. The poll timeout stays
// strictly below the silence gap so gap closure is detected promptly and
// cancellation stays responsive; no unbounded blocking call is issued.
//
// Cancellation discards any open phrase without emitting it. A closed event
// channel emits the open phrase tagged forced-close, or ErrStreamClosed when
// idle. After any error the machine is reset and ready for a new phrase.
func (c *Capture) Next(ctx context.Context) (contracts.RawPhrase, error) {
	timer := time.NewTimer(c.cfg.PollTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.reset()
			return contracts.RawPhrase{}, ctx.Err()

		case ev, ok := <-c.events:
			if !ok {
				if len(c.open) > 0 {
					return c.close(contracts.ReasonForced), nil
				}
				return contracts.RawPhrase{}, contracts.ErrStreamClosed
			}
			phrase, done, err := c.processEvent(ev, c.now())
			if err != nil {
				c.reset()
				return contracts.RawPhrase{}, err
			}
			if done {
				return phrase, nil
			}

		case <-timer.C:
			if c.silenceExpired(c.now()) {
				return c.close(contracts.ReasonSilenceGap), nil
			}
		}

		timer.Reset(c.cfg.PollTimeout)
	}
}

// processEvent advances the state machine by one device event. It returns
// the completed phrase when the event closed one.
func (c *Capture) processEvent(ev contracts.MIDI, now time.Time) (contracts.RawPhrase, bool, error) {
	switch {
	case ev.IsNoteOn():
		degree, alt, err := c.keys.PitchToDegree(contracts.Pitch(ev.Note))
		if err != nil {
			return contracts.RawPhrase{}, false, err
		}
		// Retrigger of a still-sounding pitch settles the previous onset.
		if i, sounding := c.openAt[contracts.Pitch(ev.Note)]; sounding {
			c.settle(i, now)
		}
		c.open = append(c.open, contracts.PhraseEvent{
			Degree:    degree,
			Alt:       alt,
			Pitch:     contracts.Pitch(ev.Note),
			OnsetMs:   uint64(now.Sub(c.epoch) / time.Millisecond),
			PedalDown: c.pedalDown,
		})
		c.openAt[contracts.Pitch(ev.Note)] = len(c.open) - 1
		c.lastOnset = now

	case ev.IsNoteOff():
		if i, sounding := c.openAt[contracts.Pitch(ev.Note)]; sounding {
			c.settle(i, now)
			delete(c.openAt, contracts.Pitch(ev.Note))
		}

	case ev.IsSustainPedal():
		wasDown := c.pedalDown
		c.pedalDown = ev.PedalDown()
		if wasDown && !c.pedalDown && len(c.open) >= c.cfg.MinStructural {
			return c.close(contracts.ReasonPedalRelease), true, nil
		}
		// A release below the structural threshold leaves the phrase open.
	}

	if c.silenceExpired(now) {
		return c.close(contracts.ReasonSilenceGap), true, nil
	}
	return contracts.RawPhrase{}, false, nil
}

// silenceExpired reports whether a pedal-free open phrase has been silent for
// at least the configured gap.
func (c *Capture) silenceExpired(now time.Time) bool {
	if len(c.open) == 0 || c.pedalDown {
		return false
	}
	return now.Sub(c.lastOnset) >= c.cfg.PhraseGap
}

// settle fixes the duration of a sounding event at release time.
func (c *Capture) settle(i int, now time.Time) {
	onset := c.epoch.Add(time.Duration(c.open[i].OnsetMs) * time.Millisecond)
	if d := now.Sub(onset); d > 0 {
		c.open[i].DurationMs = uint32(d / time.Millisecond)
	}
}

// close emits the open phrase and returns the machine to Idle. Notes still
// sounding at the boundary get their duration settled here.
func (c *Capture) close(reason contracts.CloseReason) contracts.RawPhrase {
	now := c.now()
	for _, i := range c.openAt {
		c.settle(i, now)
	}
	phrase := contracts.RawPhrase{Events: c.open, Reason: reason}
	c.reset()

	if c.logger != nil {
		c.logger.Debug("phrase closed",
			c.logger.Field().Int("events", len(phrase.Events)),
			c.logger.Field().String("reason", reason.String()),
		)
	}
	return phrase
}

// reset discards the open phrase. Pedal state survives; the pedal belongs to
// the player, not to the phrase.
func (c *Capture) reset() {
	c.open = nil
	c.openAt = make(map[contracts.Pitch]int)
	c.lastOnset = time.Time{}
}
