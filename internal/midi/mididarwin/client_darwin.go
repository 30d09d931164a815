//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/melodychess/cantus/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices        = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice    = errors.New("invalid MIDI device")
	ErrMIDIConnectionError  = errors.New("error connecting to MIDI device")
	ErrCreateInputPort      = errors.New("error creating input port")
	ErrNoMIDIDestination    = errors.New("no MIDI output destination found")
	ErrIncompleteMIDIPacket = errors.New("incomplete MIDI packet")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// ClientMid manages MIDI operations on Darwin (macOS) systems: capture from a
// source keyboard and note output to the first available destination.
type ClientMid struct {
	logger          contracts.Logger
	eventChannel    atomic.Value // Atomic storage for the event channel to ensure thread safety.
	client          coremidi.Client
	inputPort       coremidi.InputPort
	outputPort      coremidi.OutputPort
	outputOpen      bool
	destination     coremidi.Destination
	portConn        internalPortConnection
	midiEventFilter *contracts.MIDIEventFilter
	coreMIDIConfig  *contracts.CoreMIDIConfig
	mu              sync.Mutex
	capturing       bool
	wg              sync.WaitGroup
	stopOnce        sync.Once
}

// NewMIDIClient initializes a new ClientMid for handling MIDI events on macOS.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created")

	return &ClientMid{
		logger:          options.Logger,
		client:          client,
		midiEventFilter: options.MIDIEventFilter,
		coreMIDIConfig:  options.CoreMIDIConfig,
	}, nil
}

// ListDevices retrieves and returns available MIDI devices.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice selects a MIDI source by ID and connects to it. If a device is
// already connected, it disconnects first.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "Input Port", m.handleMIDIMessage)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error())
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device successfully connected")
	return nil
}

// Send delivers one event to the first available output destination, opening
// the output port lazily on first use.
func (m *ClientMid) Send(event contracts.MIDI) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.outputOpen {
		destinations, err := coremidi.AllDestinations()
		if err != nil {
			return fmt.Errorf("error listing MIDI destinations: %w", err)
		}
		if len(destinations) == 0 {
			m.logger.Warn(ErrNoMIDIDestination.Error())
			return ErrNoMIDIDestination
		}
		m.outputPort, err = coremidi.NewOutputPort(m.client, "Output Port")
		if err != nil {
			return fmt.Errorf("error creating output port: %w", err)
		}
		m.destination = destinations[0]
		m.outputOpen = true
	}

	packet := coremidi.NewPacket([]byte{event.Command, event.Note, event.Velocity})
	return packet.Send(&m.outputPort, &m.destination)
}

// handleMIDIMessage processes incoming MIDI messages and applies filtering.
// If an event channel is valid and the message meets filter criteria, it is
// sent to the channel without blocking the CoreMIDI callback thread.
func (m *ClientMid) handleMIDIMessage(source coremidi.Source, packet coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()

	eventChannel, _ := m.eventChannel.Load().(chan contracts.MIDI)
	if eventChannel == nil {
		m.logger.Warn("eventChannel not initialized or of invalid type")
		return
	}

	if len(packet.Data) >= 3 {
		event := contracts.MIDI{
			Timestamp: uint64(time.Now().UTC().UnixNano()),
			Command:   packet.Data[0],
			Note:      packet.Data[1],
			Velocity:  packet.Data[2],
		}

		if m.midiEventFilter != nil && !isCommandAllowed(event.Command, m.midiEventFilter.Commands) {
			return
		}
		select {
		case eventChannel <- event:
		default:
			m.logger.Warn("Event buffer full; dropping MIDI event")
		}
	} else {
		m.logger.Warn(ErrIncompleteMIDIPacket.Error())
	}
}

// isCommandAllowed verifies if a MIDI command is allowed based on the event
// filter configuration. The channel nibble is masked off so that, e.g., a
// pedal change on any channel passes a ControlChange filter.
func isCommandAllowed(command byte, allowedCommands []contracts.MIDICommand) bool {
	for _, allowedCommand := range allowedCommands {
		if command&0xF0 == byte(allowedCommand) {
			return true
		}
	}
	return false
}

// StartCapture begins capturing MIDI events by storing the event channel and
// marking capturing as active.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}

	if m.capturing {
		m.logger.Warn("Capture already started; attempting to stop existing capture")
		if err := m.Stop(); err != nil {
			m.logger.Error("Failed to stop existing capture", m.logger.Field().Error("error", err))
		}
	}

	m.logger.Info("Starting MIDI event capture")
	m.eventChannel.Store(eventChannel)
	m.capturing = true
}

// Stop halts MIDI event capturing, disconnects from the device, and waits for
// ongoing processing to complete. Only executes once.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.logger.Info("Stopping MIDI capture")
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.capturing {
			m.capturing = false

			if m.portConn != nil {
				m.portConn.Disconnect()
				m.portConn = nil
			}

			// Store a closed dummy channel to prevent further writes and avoid any panic.
			dummyChannel := make(chan contracts.MIDI)
			m.eventChannel.Store(dummyChannel)

			m.logger.Info("MIDI capture stopped")
			m.wg.Wait()
		}
	})
	return nil
}
