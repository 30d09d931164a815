package key

import (
	"testing"

	"github.com/melodychess/cantus/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() contracts.KeyboardConfig {
	return contracts.KeyboardConfig{
		TonicPitch:  60,
		WindowLow:   48,
		WindowHigh:  84,
		WhiteAnchor: 1,
		BlackAnchor: 8,
	}
}

func TestNewContextValidation(t *testing.T) {
	_, err := NewContext(contracts.KeyboardConfig{TonicPitch: 60, WindowLow: 70, WindowHigh: 50})
	assert.Error(t, err)

	_, err = NewContext(contracts.KeyboardConfig{TonicPitch: 40, WindowLow: 48, WindowHigh: 84})
	assert.Error(t, err)

	_, err = NewContext(testConfig())
	assert.NoError(t, err)
}

func TestPitchToDegree(t *testing.T) {
	ctx, err := NewContext(testConfig())
	require.NoError(t, err)

	tests := []struct {
		name   string
		pitch  contracts.Pitch
		degree contracts.Degree
		alt    contracts.Alteration
	}{
		{"tonic", 60, 1, contracts.Natural},
		{"flat second", 61, 2, contracts.Flat},
		{"second", 62, 2, contracts.Natural},
		{"flat third", 63, 3, contracts.Flat},
		{"third", 64, 3, contracts.Natural},
		{"fourth", 65, 4, contracts.Natural},
		{"sharp fourth", 66, 4, contracts.Sharp},
		{"fifth", 67, 5, contracts.Natural},
		{"flat sixth", 68, 6, contracts.Flat},
		{"sixth", 69, 6, contracts.Natural},
		{"flat seventh", 70, 7, contracts.Flat},
		{"seventh", 71, 7, contracts.Natural},
		{"octave anchor", 72, 8, contracts.Natural},
		{"two octaves up is still the anchor", 84, 8, contracts.Natural},
		{"leading tone below the tonic", 59, 7, contracts.Natural},
		{"fifth below the tonic", 55, 5, contracts.Natural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			degree, alt, err := ctx.PitchToDegree(tt.pitch)
			require.NoError(t, err)
			assert.Equal(t, tt.degree, degree)
			assert.Equal(t, tt.alt, alt)
		})
	}
}

func TestPitchToDegreeOutOfRange(t *testing.T) {
	ctx, err := NewContext(testConfig())
	require.NoError(t, err)

	for _, pitch := range []contracts.Pitch{47, 85, 0, 127} {
		_, _, err := ctx.PitchToDegree(pitch)
		assert.ErrorIs(t, err, contracts.ErrOutOfRange, "pitch %d", pitch)
	}
}

func TestDegreeToPitch(t *testing.T) {
	ctx, err := NewContext(testConfig())
	require.NoError(t, err)

	tests := []struct {
		degree contracts.Degree
		alt    contracts.Alteration
		want   contracts.Pitch
	}{
		{1, contracts.Natural, 60},
		{2, contracts.Flat, 61},
		{3, contracts.Flat, 63},
		{4, contracts.Sharp, 66},
		{7, contracts.Natural, 71},
		{8, contracts.Natural, 72},
		// Degree 8 ignores alteration: it is always tonic+12.
		{8, contracts.Flat, 72},
		{8, contracts.Sharp, 72},
	}
	for _, tt := range tests {
		got, err := ctx.DegreeToPitch(tt.degree, tt.alt)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "degree %d alt %d", tt.degree, tt.alt)
	}

	_, err = ctx.DegreeToPitch(0, contracts.Natural)
	assert.Error(t, err)
	_, err = ctx.DegreeToPitch(9, contracts.Natural)
	assert.Error(t, err)
}

func TestStepPitchHonorsDirection(t *testing.T) {
	ctx, err := NewContext(testConfig())
	require.NoError(t, err)

	tests := []struct {
		name string
		prev contracts.Pitch
		step contracts.Step
		want contracts.Pitch
	}{
		{"anchor on tonic", 0, contracts.Step{Degree: 1, Dir: contracts.DirAnchor}, 60},
		{"anchor on octave", 0, contracts.Step{Degree: 8, Dir: contracts.DirAnchor}, 72},
		{"down to 7 falls below tonic", 60, contracts.Step{Degree: 7, Dir: contracts.DirDown}, 59},
		{"up to 7 rises above tonic", 60, contracts.Step{Degree: 7, Dir: contracts.DirUp}, 71},
		{"back up to 1", 59, contracts.Step{Degree: 1, Dir: contracts.DirUp}, 60},
		{"octave leap", 60, contracts.Step{Degree: 8, Dir: contracts.DirUp}, 72},
		{"descent from the black anchor", 72, contracts.Step{Degree: 5, Dir: contracts.DirDown}, 67},
		{"repeat", 67, contracts.Step{Degree: 5, Dir: contracts.DirRepeat}, 67},
		{"sharp four", 60, contracts.Step{Degree: 4, Alt: contracts.Sharp, Dir: contracts.DirUp}, 66},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.StepPitch(tt.prev, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepPitchWindow(t *testing.T) {
	ctx, err := NewContext(testConfig())
	require.NoError(t, err)

	// Descending past the window floor is rejected.
	_, err = ctx.StepPitch(48, contracts.Step{Degree: 7, Dir: contracts.DirDown})
	assert.ErrorIs(t, err, contracts.ErrOutOfRange)
}
