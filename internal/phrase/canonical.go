package phrase

import (
	"fmt"
	"time"

	"github.com/melodychess/cantus/sdk/contracts"
)

// Canonicalizer reduces a raw phrase to its minimal structural degree path.
type Canonicalizer struct {
	graceCutoff time.Duration
}

// NewCanonicalizer builds a Canonicalizer. Notes held shorter than the grace
// cutoff are ornamental unless they end the phrase.
func NewCanonicalizer(graceCutoff time.Duration) *Canonicalizer {
	return &Canonicalizer{graceCutoff: graceCutoff}
}

// Canonicalize turns a raw phrase into the canonical step sequence for the
// given color. Rules, in order: strip decorative leading tones, collapse runs
// of three or more identical degrees down to exactly two, then convert the
// remaining absolute degrees into signed relative steps anchored at the first
// retained degree. An empty structural phrase fails with ErrMalformedPhrase.
func (cz *Canonicalizer) Canonicalize(raw contracts.RawPhrase, color contracts.Color) (contracts.CanonicalPhrase, error) {
	kept := cz.stripGraces(raw.Events)
	kept = collapseRuns(kept)

	if len(kept) == 0 {
		return contracts.CanonicalPhrase{}, fmt.Errorf("%w: no structural content after stripping", contracts.ErrMalformedPhrase)
	}

	steps := make([]contracts.Step, len(kept))
	steps[0] = contracts.Step{Degree: kept[0].Degree, Alt: kept[0].Alt, Dir: contracts.DirAnchor}
	for i := 1; i < len(kept); i++ {
		steps[i] = contracts.Step{
			Degree: kept[i].Degree,
			Alt:    kept[i].Alt,
			Dir:    direction(kept[i-1].Pitch, kept[i].Pitch),
		}
	}
	return contracts.CanonicalPhrase{Color: color, Steps: steps}, nil
}

// stripGraces drops appoggiaturas and grace notes: tones held shorter than
// the cutoff that precede another tone. The last sustained pitch before a
// structural transition is authoritative, so the final event always stays.
func (cz *Canonicalizer) stripGraces(events []contracts.PhraseEvent) []contracts.PhraseEvent {
	if cz.graceCutoff <= 0 || len(events) == 0 {
		return events
	}
	kept := make([]contracts.PhraseEvent, 0, len(events))
	cutoffMs := uint32(cz.graceCutoff / time.Millisecond)
	for i, ev := range events {
		if i < len(events)-1 && ev.DurationMs < cutoffMs {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

// collapseRuns reduces runs of 3+ identical consecutive degrees to exactly 2,
// keeping the first and last occurrence. A run of exactly 2 is an intentional
// final repeat and stays untouched.
func collapseRuns(events []contracts.PhraseEvent) []contracts.PhraseEvent {
	if len(events) == 0 {
		return events
	}
	out := make([]contracts.PhraseEvent, 0, len(events))
	for i := 0; i < len(events); {
		j := i
		for j < len(events) && events[j].Degree == events[i].Degree {
			j++
		}
		out = append(out, events[i])
		if j-i >= 2 {
			out = append(out, events[j-1])
		}
		i = j
	}
	return out
}

// direction classifies melodic motion between two pitches.
func direction(prev, cur contracts.Pitch) contracts.Direction {
	switch {
	case cur > prev:
		return contracts.DirUp
	case cur < prev:
		return contracts.DirDown
	default:
		return contracts.DirRepeat
	}
}
