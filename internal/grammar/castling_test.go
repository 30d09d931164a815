package grammar

import (
	"testing"

	"github.com/melodychess/cantus/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prelude() []contracts.Step {
	return []contracts.Step{
		anchor(1),
		altered(4, contracts.Sharp, contracts.DirUp),
		up(5),
	}
}

func TestDetectCastlingSides(t *testing.T) {
	d := newDecoder(t)

	tests := []struct {
		name string
		run  []contracts.Step
		want contracts.CastleSide
	}{
		{"single ascent", []contracts.Step{up(6)}, contracts.Kingside},
		{"longer ascent", []contracts.Step{up(6), up(7), up(1)}, contracts.Kingside},
		{"single descent", []contracts.Step{down(4)}, contracts.Queenside},
		{"longer descent", []contracts.Step{down(4), down(3)}, contracts.Queenside},
		{"wobbling but net ascending", []contracts.Step{up(6), down(5), up(7)}, contracts.Kingside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := phraseOf(contracts.White, append(prelude(), tt.run...)...)
			side, ok, err := d.DetectCastling(p)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, side)
		})
	}
}

func TestDetectCastlingNetZeroIsMalformed(t *testing.T) {
	d := newDecoder(t)

	// No run at all: nothing to take a sign from.
	_, ok, err := d.DetectCastling(phraseOf(contracts.White, prelude()...))
	require.True(t, ok)
	assert.ErrorIs(t, err, contracts.ErrMalformedPhrase)

	// Up one, back down one: net zero.
	p := phraseOf(contracts.White, append(prelude(), up(6), down(5))...)
	_, ok, err = d.DetectCastling(p)
	require.True(t, ok)
	assert.ErrorIs(t, err, contracts.ErrMalformedPhrase)
}

func TestDetectCastlingDeclines(t *testing.T) {
	d := newDecoder(t)

	tests := []struct {
		name   string
		phrase contracts.CanonicalPhrase
	}{
		{"too short", phraseOf(contracts.White, anchor(1), altered(4, contracts.Sharp, contracts.DirUp))},
		{"natural fourth is a d-file phrase", phraseOf(contracts.White, anchor(1), up(4), up(5))},
		{"wrong anchor", phraseOf(contracts.White, anchor(5), altered(4, contracts.Sharp, contracts.DirUp), up(5))},
		{"ordinary square phrase", phraseOf(contracts.White, anchor(1), up(5), down(2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := d.DetectCastling(tt.phrase)
			assert.False(t, ok)
			assert.NoError(t, err)
		})
	}
}
