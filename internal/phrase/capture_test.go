package phrase

import (
	"context"
	"testing"
	"time"

	"github.com/melodychess/cantus/internal/key"
	"github.com/melodychess/cantus/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noteOn(pitch contracts.Pitch) contracts.MIDI {
	return contracts.MIDI{Command: byte(contracts.NoteOn), Note: byte(pitch), Velocity: 100}
}

func noteOff(pitch contracts.Pitch) contracts.MIDI {
	return contracts.MIDI{Command: byte(contracts.NoteOff), Note: byte(pitch)}
}

func pedal(down bool) contracts.MIDI {
	value := byte(0)
	if down {
		value = 127
	}
	return contracts.MIDI{Command: byte(contracts.ControlChange), Note: contracts.SustainPedalController, Velocity: value}
}

func testCapture(t *testing.T, buffer int) (*Capture, chan contracts.MIDI) {
	t.Helper()
	keys, err := key.NewContext(contracts.KeyboardConfig{
		TonicPitch: 60, WindowLow: 48, WindowHigh: 84, WhiteAnchor: 1, BlackAnchor: 8,
	})
	require.NoError(t, err)

	events := make(chan contracts.MIDI, buffer)
	cfg := contracts.CaptureConfig{
		PhraseGap:     60 * time.Millisecond,
		PollTimeout:   10 * time.Millisecond,
		MinStructural: 3,
		GraceCutoff:   20 * time.Millisecond,
		BufferSize:    buffer,
	}
	return NewCapture(events, keys, cfg, nil), events
}

func TestPedalReleaseBelowThresholdKeepsPhraseOpen(t *testing.T) {
	c, _ := testCapture(t, 16)
	now := time.Now()

	for _, ev := range []contracts.MIDI{pedal(true), noteOn(60), noteOn(67)} {
		_, done, err := c.processEvent(ev, now)
		require.NoError(t, err)
		require.False(t, done)
	}

	// Two events are below the threshold of three: the release is ignored.
	_, done, err := c.processEvent(pedal(false), now)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Len(t, c.open, 2)

	// Press again, add the third tone, release: now the phrase closes.
	_, _, err = c.processEvent(pedal(true), now)
	require.NoError(t, err)
	_, _, err = c.processEvent(noteOn(62), now)
	require.NoError(t, err)

	phrase, done, err := c.processEvent(pedal(false), now)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, contracts.ReasonPedalRelease, phrase.Reason)
	assert.Len(t, phrase.Events, 3)
	assert.Empty(t, c.open, "machine must be idle after emitting")
}

func TestSilenceBoundary(t *testing.T) {
	c, _ := testCapture(t, 16)
	t0 := time.Now()

	_, done, err := c.processEvent(noteOn(60), t0)
	require.NoError(t, err)
	require.False(t, done)

	assert.False(t, c.silenceExpired(t0.Add(59*time.Millisecond)), "a gap one short of the threshold must not close")
	assert.True(t, c.silenceExpired(t0.Add(60*time.Millisecond)), "a gap meeting the threshold must close")

	// A held pedal suppresses the silence rule entirely.
	_, _, err = c.processEvent(pedal(true), t0)
	require.NoError(t, err)
	assert.False(t, c.silenceExpired(t0.Add(time.Second)))
}

func TestNextClosesOnSilence(t *testing.T) {
	c, events := testCapture(t, 16)
	events <- noteOn(60)
	events <- noteOff(60)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	phrase, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, contracts.ReasonSilenceGap, phrase.Reason)
	require.Len(t, phrase.Events, 1)
	assert.Equal(t, contracts.Degree(1), phrase.Events[0].Degree)
}

func TestNextClosesOnPedalRelease(t *testing.T) {
	c, events := testCapture(t, 16)
	for _, ev := range []contracts.MIDI{
		pedal(true), noteOn(60), noteOn(67), noteOn(62), pedal(false),
	} {
		events <- ev
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	phrase, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, contracts.ReasonPedalRelease, phrase.Reason)
	assert.Len(t, phrase.Events, 3)
	assert.True(t, phrase.Events[1].PedalDown)
}

func TestNextCancellationDiscardsOpenPhrase(t *testing.T) {
	c, events := testCapture(t, 16)
	events <- pedal(true)
	events <- noteOn(60)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := c.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.open, "cancellation must discard, not emit")

	// The machine is clean: a fresh well-formed phrase captures normally.
	for _, ev := range []contracts.MIDI{noteOn(60), noteOn(67), noteOn(62), pedal(false)} {
		events <- ev
	}
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()

	phrase, err := c.Next(ctx2)
	require.NoError(t, err)
	assert.Len(t, phrase.Events, 3)
}

func TestNextForcedCloseOnStreamEnd(t *testing.T) {
	c, events := testCapture(t, 16)
	events <- pedal(true)
	events <- noteOn(60)
	events <- noteOn(64)
	close(events)

	ctx := context.Background()
	phrase, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, contracts.ReasonForced, phrase.Reason)
	assert.Len(t, phrase.Events, 2)

	_, err = c.Next(ctx)
	assert.ErrorIs(t, err, contracts.ErrStreamClosed)
}

func TestNextOutOfRangePitch(t *testing.T) {
	c, events := testCapture(t, 16)
	events <- noteOn(20)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.Next(ctx)
	assert.ErrorIs(t, err, contracts.ErrOutOfRange)
	assert.Empty(t, c.open, "error must leave the machine idle")

	// Recoverable: the next phrase captures normally.
	for _, ev := range []contracts.MIDI{pedal(true), noteOn(60), noteOn(67), noteOn(62), pedal(false)} {
		events <- ev
	}
	phrase, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, phrase.Events, 3)
}
