package grammar

import (
	"testing"

	"github.com/melodychess/cantus/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatUp(degree contracts.Degree) contracts.Step {
	return altered(degree, contracts.Flat, contracts.DirUp)
}

func TestMatchPromotionSignal(t *testing.T) {
	d := newDecoder(t)

	assert.True(t, d.MatchPromotionSignal(phraseOf(contracts.White, anchor(1), flatUp(2))))
	assert.True(t, d.MatchPromotionSignal(phraseOf(contracts.Black, anchor(1), flatUp(2))))

	tests := []struct {
		name   string
		phrase contracts.CanonicalPhrase
	}{
		{"natural second", phraseOf(contracts.White, anchor(1), up(2))},
		{"anchor only", phraseOf(contracts.White, anchor(1))},
		{"trailing step", phraseOf(contracts.White, anchor(1), flatUp(2), up(3))},
		{"descending second", phraseOf(contracts.White, anchor(1), altered(2, contracts.Flat, contracts.DirDown))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, d.MatchPromotionSignal(tt.phrase))
		})
	}
}

func TestDecodePromotionPiece(t *testing.T) {
	d := newDecoder(t)

	tests := []struct {
		name  string
		steps []contracts.Step
		want  contracts.PromotionPiece
	}{
		{"rook", []contracts.Step{anchor(1)}, contracts.Rook},
		{"knight", []contracts.Step{anchor(1), flatUp(2)}, contracts.Knight},
		{"bishop", []contracts.Step{anchor(1), flatUp(2), flatUp(3)}, contracts.Bishop},
		{"queen", []contracts.Step{anchor(1), flatUp(2), flatUp(3), up(3)}, contracts.Queen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.DecodePromotionPiece(phraseOf(contracts.White, tt.steps...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePromotionPieceRejectsNonPrefixes(t *testing.T) {
	d := newDecoder(t)

	tests := []struct {
		name  string
		steps []contracts.Step
	}{
		{"empty", nil},
		{"wrong opening", []contracts.Step{anchor(2), flatUp(3)}},
		{"natural where flat expected", []contracts.Step{anchor(1), up(2)}},
		{"diverges midway", []contracts.Step{anchor(1), flatUp(2), up(3)}},
		{"too long", []contracts.Step{anchor(1), flatUp(2), flatUp(3), up(3), up(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.DecodePromotionPiece(phraseOf(contracts.White, tt.steps...))
			assert.ErrorIs(t, err, contracts.ErrUnrecognizedPromotion)
		})
	}
}
