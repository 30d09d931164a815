// Package cantus is the public surface of the melodic grammar engine: it
// captures phrases from a MIDI keyboard, decodes them into chess-move syntax,
// and renders moves back as melodic phrases.
package cantus

import (
	"context"
	"fmt"

	"github.com/melodychess/cantus/internal/grammar"
	"github.com/melodychess/cantus/internal/key"
	"github.com/melodychess/cantus/internal/phrase"
	"github.com/melodychess/cantus/internal/playback"
	"github.com/melodychess/cantus/sdk/contracts"
	"github.com/melodychess/cantus/sdk/midi"
)

// Engine binds a MIDI device to the grammar. Decode and encode operations are
// pure and reentrant; the only concurrency boundary is the device callback
// producing into the bounded event channel that the capture loop consumes.
type Engine struct {
	device  contracts.ClientMIDI
	events  chan contracts.MIDI
	keys    *key.Context
	capture *phrase.Capture
	canon   *phrase.Canonicalizer
	decoder *grammar.Decoder
	encoder *grammar.Encoder
	render  *playback.Renderer
	logger  contracts.Logger
}

// NewEngine creates an engine with the specified options, applying the same
// defaults as the device factory.
func NewEngine(opts ...contracts.Option) (*Engine, error) {
	options, err := midi.ApplyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	device, err := midi.NewClient(&options)
	if err != nil {
		return nil, err
	}

	keys, err := key.NewContext(*options.Keyboard)
	if err != nil {
		return nil, err
	}
	decoder, err := grammar.NewDecoder(*options.Keyboard)
	if err != nil {
		return nil, err
	}
	encoder, err := grammar.NewEncoder(*options.Keyboard)
	if err != nil {
		return nil, err
	}

	events := make(chan contracts.MIDI, options.Capture.BufferSize)
	return &Engine{
		device:  device,
		events:  events,
		keys:    keys,
		capture: phrase.NewCapture(events, keys, *options.Capture, options.Logger),
		canon:   phrase.NewCanonicalizer(options.Capture.GraceCutoff),
		decoder: decoder,
		encoder: encoder,
		render:  playback.NewRenderer(device, keys, *options.Playback, options.Logger),
		logger:  options.Logger,
	}, nil
}

// ListDevices lists the available MIDI devices.
func (e *Engine) ListDevices() ([]contracts.DeviceInfo, error) {
	return e.device.ListDevices()
}

// Start selects the device and begins feeding the capture loop.
func (e *Engine) Start(deviceID int) error {
	if err := e.device.SelectDevice(deviceID); err != nil {
		return err
	}
	e.device.StartCapture(e.events)
	return nil
}

// Stop halts capture and releases the device.
func (e *Engine) Stop() error {
	return e.device.Stop()
}

// CapturePhrase blocks until one phrase closes and returns it raw.
func (e *Engine) CapturePhrase(ctx context.Context) (contracts.RawPhrase, error) {
	return e.capture.Next(ctx)
}

// Canonicalize reduces a raw phrase to its canonical step sequence.
func (e *Engine) Canonicalize(raw contracts.RawPhrase, color contracts.Color) (contracts.CanonicalPhrase, error) {
	return e.canon.Canonicalize(raw, color)
}

// DecodeFragment parses a canonical phrase into a move fragment, trying the
// fixed-shape matchers before the general square rule. The promotion
// tetrachord is not a standalone fragment; it only follows the promotion cue
// inside a move session.
func (e *Engine) DecodeFragment(p contracts.CanonicalPhrase) (contracts.MoveFragment, error) {
	if side, ok, err := e.decoder.DetectCastling(p); ok || err != nil {
		if err != nil {
			return contracts.MoveFragment{}, err
		}
		return contracts.MoveFragment{Kind: contracts.FragmentCastle, Side: side}, nil
	}
	sq, err := e.decoder.DecodeSquare(p)
	if err != nil {
		return contracts.MoveFragment{}, err
	}
	return contracts.MoveFragment{Kind: contracts.FragmentSquare, Square: sq}, nil
}

// DecodeSquare parses a canonical phrase as a board square.
func (e *Engine) DecodeSquare(p contracts.CanonicalPhrase) (contracts.Square, error) {
	return e.decoder.DecodeSquare(p)
}

// MatchPromotionSignal reports whether a phrase is the promotion cue.
func (e *Engine) MatchPromotionSignal(p contracts.CanonicalPhrase) bool {
	return e.decoder.MatchPromotionSignal(p)
}

// DecodePromotionPiece reads the tetrachord identification phrase.
func (e *Engine) DecodePromotionPiece(p contracts.CanonicalPhrase) (contracts.PromotionPiece, error) {
	return e.decoder.DecodePromotionPiece(p)
}

// EncodeMove renders a move as its canonical phrase sequence.
func (e *Engine) EncodeMove(mv contracts.Move, color contracts.Color) ([]contracts.CanonicalPhrase, error) {
	return e.encoder.EncodeMove(mv, color)
}

// EncodeSquare renders one square as its identifying phrase.
func (e *Engine) EncodeSquare(sq contracts.Square, color contracts.Color) (contracts.CanonicalPhrase, error) {
	return e.encoder.EncodeSquare(sq, color)
}

// RenderMove encodes a move and plays its phrases on the device output.
func (e *Engine) RenderMove(ctx context.Context, mv contracts.Move, color contracts.Color) error {
	phrases, err := e.encoder.EncodeMove(mv, color)
	if err != nil {
		return err
	}
	return e.render.PlayPhrases(ctx, phrases)
}

// RenderPhrase plays a single canonical phrase on the device output.
func (e *Engine) RenderPhrase(ctx context.Context, p contracts.CanonicalPhrase) error {
	return e.render.PlayPhrase(ctx, p)
}

// RetryCue plays the "please repeat" earcon.
func (e *Engine) RetryCue(ctx context.Context) error {
	return e.render.RetryCue(ctx)
}

// captureCanonical is the capture+canonicalize step shared by the session.
func (e *Engine) captureCanonical(ctx context.Context, color contracts.Color) (contracts.CanonicalPhrase, error) {
	raw, err := e.capture.Next(ctx)
	if err != nil {
		return contracts.CanonicalPhrase{}, err
	}
	return e.canon.Canonicalize(raw, color)
}

// CaptureMove runs the full phrase protocol for one move of the given color:
// the first phrase is either the castling motif or the start square, the
// second the landing square. When the rules collaborator reports that the
// landing allows promotion, the promotion cue and tetrachord phrases are
// captured as well; a non-matching cue means no promotion, not an error.
//
// Chess legality is never enforced here; isLegal may be nil, in which case
// promotion phrases are never requested. Any grammar error is returned to
// the caller with the capture machine ready for a new phrase, so the
// orchestrator decides whether to request a repeat.
func (e *Engine) CaptureMove(ctx context.Context, color contracts.Color, isLegal contracts.IsLegalFunc) (contracts.Move, error) {
	p1, err := e.captureCanonical(ctx, color)
	if err != nil {
		return contracts.Move{}, err
	}

	if side, ok, err := e.decoder.DetectCastling(p1); ok || err != nil {
		if err != nil {
			return contracts.Move{}, err
		}
		return contracts.Move{Kind: contracts.MoveCastle, Side: side}, nil
	}

	from, err := e.decoder.DecodeSquare(p1)
	if err != nil {
		return contracts.Move{}, err
	}

	p2, err := e.captureCanonical(ctx, color)
	if err != nil {
		return contracts.Move{}, err
	}
	to, err := e.decoder.DecodeSquare(p2)
	if err != nil {
		return contracts.Move{}, err
	}
	if from == to {
		return contracts.Move{}, fmt.Errorf("%w: start and landing squares are both %s", contracts.ErrMalformedPhrase, from)
	}

	mv := contracts.Move{Kind: contracts.MoveNormal, From: from, To: to}
	if isLegal == nil || !isLegal(mv).Flags.PromotionAvailable {
		return mv, nil
	}

	cue, err := e.captureCanonical(ctx, color)
	if err != nil {
		return contracts.Move{}, err
	}
	if !e.decoder.MatchPromotionSignal(cue) {
		// The cue declined; the move stands without promotion.
		return mv, nil
	}

	ident, err := e.captureCanonical(ctx, color)
	if err != nil {
		return contracts.Move{}, err
	}
	piece, err := e.decoder.DecodePromotionPiece(ident)
	if err != nil {
		return contracts.Move{}, err
	}
	mv.Promotion = piece
	mv.Promoted = true
	return mv, nil
}
