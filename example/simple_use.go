package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/melodychess/cantus/internal/logger"
	"github.com/melodychess/cantus/sdk/cantus"
	"github.com/melodychess/cantus/sdk/contracts"
)

func main() {
	log := logger.NewZapLogger()

	engine, err := cantus.NewEngine(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("Failed to initialize engine", log.Field().Error("error", err))
		return
	}

	devices, err := engine.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	if err = engine.Start(0); err != nil {
		log.Error("Failed to start capture", log.Field().Error("error", err))
		return
	}
	defer engine.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Play phrases; hold the sustain pedal while playing, release to close. Ctrl+C to exit.")
	for {
		raw, err := engine.CapturePhrase(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Warn("Capture failed", log.Field().Error("error", err))
			continue
		}

		canonical, err := engine.Canonicalize(raw, contracts.White)
		if err != nil {
			fmt.Println("Could not read that phrase; please repeat.")
			_ = engine.RetryCue(ctx)
			continue
		}

		fragment, err := engine.DecodeFragment(canonical)
		if err != nil {
			fmt.Println("Phrase matches no rule; please repeat.")
			_ = engine.RetryCue(ctx)
			continue
		}
		fmt.Printf("Phrase %q decodes to %s\n", canonical.String(), fragment)
	}
}
