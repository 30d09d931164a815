// Package playback renders canonical phrases back to the instrument as short
// timed notes. Timbre and sustained-tone shaping are the synth's business;
// this only places the identifying tones.
package playback

import (
	"context"
	"time"

	"github.com/melodychess/cantus/internal/key"
	"github.com/melodychess/cantus/sdk/contracts"
)

// retryPitch is the low tone of the "please repeat" earcon (C3 under a C4
// tonic arrangement).
const retryPitch contracts.Pitch = 48

// Renderer plays degree sequences through a MIDI output.
type Renderer struct {
	out    contracts.NoteSender
	keys   *key.Context
	cfg    contracts.PlaybackConfig
	logger contracts.Logger
}

// NewRenderer builds a Renderer over a note sender.
func NewRenderer(out contracts.NoteSender, keys *key.Context, cfg contracts.PlaybackConfig, log contracts.Logger) *Renderer {
	return &Renderer{out: out, keys: keys, cfg: cfg, logger: log}
}

// PlayPhrase sounds a canonical phrase note by note, honoring each step's
// direction when placing the octave, so a descending 7 actually falls below
// the tonic. Degree 8 renders as tonic+12, which naturally places Black
// phrases an octave above White.
func (r *Renderer) PlayPhrase(ctx context.Context, p contracts.CanonicalPhrase) error {
	var prev contracts.Pitch
	for i, st := range p.Steps {
		pitch, err := r.keys.StepPitch(prev, st)
		if err != nil {
			return err
		}
		if err := r.playNote(ctx, pitch, 100); err != nil {
			return err
		}
		prev = pitch
		if i < len(p.Steps)-1 {
			if err := sleep(ctx, r.cfg.NoteGap); err != nil {
				return err
			}
		}
	}
	return nil
}

// PlayPhrases sounds a phrase sequence with a short breath between phrases.
func (r *Renderer) PlayPhrases(ctx context.Context, phrases []contracts.CanonicalPhrase) error {
	for i, p := range phrases {
		if err := r.PlayPhrase(ctx, p); err != nil {
			return err
		}
		if i < len(phrases)-1 {
			if err := sleep(ctx, 3*r.cfg.NoteGap); err != nil {
				return err
			}
		}
	}
	return nil
}

// RetryCue plays two short low beeps: the gentle "please repeat" earcon.
// There is no "OK" earcon; silence keeps the flow minimal.
func (r *Renderer) RetryCue(ctx context.Context) error {
	for i := 0; i < 2; i++ {
		if err := r.playNote(ctx, retryPitch, 100); err != nil {
			return err
		}
		if err := sleep(ctx, r.cfg.NoteGap); err != nil {
			return err
		}
	}
	return nil
}

// playNote sends a note on, holds it for the configured length, and releases.
func (r *Renderer) playNote(ctx context.Context, pitch contracts.Pitch, velocity byte) error {
	on := contracts.MIDI{
		Timestamp: uint64(time.Now().UnixNano()),
		Command:   byte(contracts.NoteOn) | r.cfg.Channel,
		Note:      byte(pitch),
		Velocity:  velocity,
	}
	if err := r.out.Send(on); err != nil {
		return err
	}
	holdErr := sleep(ctx, r.cfg.NoteLength)

	off := on
	off.Timestamp = uint64(time.Now().UnixNano())
	off.Command = byte(contracts.NoteOff) | r.cfg.Channel
	off.Velocity = 0
	if err := r.out.Send(off); err != nil {
		return err
	}
	return holdErr
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
