package contracts

import "errors"

// Error definitions for grammar and capture failures. All of them are
// recoverable: the capture state machine is ready for a new phrase
// immediately after any of these is returned.
var (
	// ErrOutOfRange reports a pitch outside the configured playable window.
	ErrOutOfRange = errors.New("pitch outside playable window")
	// ErrMalformedPhrase reports a phrase that matches no grammar rule,
	// has no structural content, or a castling run with zero net displacement.
	ErrMalformedPhrase = errors.New("malformed phrase")
	// ErrAmbiguousPhrase reports a degenerate phrase satisfying two fixed
	// signatures at once. Well-formed input cannot trigger it.
	ErrAmbiguousPhrase = errors.New("ambiguous phrase")
	// ErrUnrecognizedPromotion reports a promotion identification phrase that
	// is not a prefix of the tetrachord.
	ErrUnrecognizedPromotion = errors.New("unrecognized promotion phrase")
	// ErrStreamClosed reports that the device event stream ended while idle.
	ErrStreamClosed = errors.New("event stream closed")
)
