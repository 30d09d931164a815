package phrase

import (
	"testing"
	"time"

	"github.com/melodychess/cantus/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ev builds a structural phrase event with a comfortable sustained duration.
func ev(degree contracts.Degree, alt contracts.Alteration, pitch contracts.Pitch) contracts.PhraseEvent {
	return contracts.PhraseEvent{Degree: degree, Alt: alt, Pitch: pitch, DurationMs: 200}
}

func raw(events ...contracts.PhraseEvent) contracts.RawPhrase {
	return contracts.RawPhrase{Events: events, Reason: contracts.ReasonPedalRelease}
}

func TestCanonicalizeDirections(t *testing.T) {
	cz := NewCanonicalizer(60 * time.Millisecond)

	// The A-file mordent: tonic, leading tone below, tonic again.
	p, err := cz.Canonicalize(raw(
		ev(1, contracts.Natural, 60),
		ev(7, contracts.Natural, 59),
		ev(1, contracts.Natural, 60),
	), contracts.White)
	require.NoError(t, err)

	assert.Equal(t, contracts.White, p.Color)
	assert.Equal(t, []contracts.Step{
		{Degree: 1, Dir: contracts.DirAnchor},
		{Degree: 7, Dir: contracts.DirDown},
		{Degree: 1, Dir: contracts.DirUp},
	}, p.Steps)
}

func TestCanonicalizeCollapsesLongRuns(t *testing.T) {
	cz := NewCanonicalizer(60 * time.Millisecond)

	// A run of three identical degrees collapses to exactly two.
	p, err := cz.Canonicalize(raw(
		ev(1, contracts.Natural, 60),
		ev(5, contracts.Natural, 67),
		ev(5, contracts.Natural, 67),
		ev(5, contracts.Natural, 67),
	), contracts.White)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Step{
		{Degree: 1, Dir: contracts.DirAnchor},
		{Degree: 5, Dir: contracts.DirUp},
		{Degree: 5, Dir: contracts.DirRepeat},
	}, p.Steps)

	// A run of exactly two is an intentional final repeat and stays.
	p, err = cz.Canonicalize(raw(
		ev(1, contracts.Natural, 60),
		ev(5, contracts.Natural, 67),
		ev(5, contracts.Natural, 67),
	), contracts.White)
	require.NoError(t, err)
	assert.Len(t, p.Steps, 3)
	assert.Equal(t, contracts.DirRepeat, p.Steps[2].Dir)
}

func TestCanonicalizeStripsGraceNotes(t *testing.T) {
	cz := NewCanonicalizer(60 * time.Millisecond)

	grace := contracts.PhraseEvent{Degree: 2, Alt: contracts.Natural, Pitch: 62, DurationMs: 20}
	p, err := cz.Canonicalize(raw(
		ev(1, contracts.Natural, 60),
		grace,
		ev(3, contracts.Natural, 64),
	), contracts.White)
	require.NoError(t, err)
	assert.Equal(t, []contracts.Step{
		{Degree: 1, Dir: contracts.DirAnchor},
		{Degree: 3, Dir: contracts.DirUp},
	}, p.Steps)
}

func TestCanonicalizeKeepsFinalShortNote(t *testing.T) {
	cz := NewCanonicalizer(60 * time.Millisecond)

	// The phrase's last tone is authoritative even if short.
	short := contracts.PhraseEvent{Degree: 2, Alt: contracts.Natural, Pitch: 62, DurationMs: 10}
	p, err := cz.Canonicalize(raw(ev(1, contracts.Natural, 60), short), contracts.White)
	require.NoError(t, err)
	assert.Len(t, p.Steps, 2)
	assert.Equal(t, contracts.Degree(2), p.Steps[1].Degree)
}

func TestCanonicalizeEmptyPhrase(t *testing.T) {
	cz := NewCanonicalizer(60 * time.Millisecond)

	_, err := cz.Canonicalize(raw(), contracts.White)
	assert.ErrorIs(t, err, contracts.ErrMalformedPhrase)

	// All events ornamental except none surviving is impossible: the final
	// event always survives, so only a truly empty phrase is malformed.
	_, err = cz.Canonicalize(contracts.RawPhrase{Reason: contracts.ReasonSilenceGap}, contracts.Black)
	assert.ErrorIs(t, err, contracts.ErrMalformedPhrase)
}

func TestCanonicalizeDisabledGraceCutoff(t *testing.T) {
	cz := NewCanonicalizer(-1)

	// A negative cutoff keeps even zero-duration tones.
	zero := contracts.PhraseEvent{Degree: 5, Alt: contracts.Natural, Pitch: 67}
	p, err := cz.Canonicalize(raw(ev(1, contracts.Natural, 60), zero, ev(2, contracts.Natural, 62)), contracts.White)
	require.NoError(t, err)
	assert.Len(t, p.Steps, 3)
}
