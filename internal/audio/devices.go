package audio

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/escanorganic/music-viz1/internal/config"
)

// ErrNoInputDevice is returned when the requested input device does not
// exist, or no default input device is available.
var ErrNoInputDevice = errors.New("no input device")

// Initialize sets up the PortAudio subsystem.
// This must be called before any audio operations and paired with a Terminate() call.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate cleanly shuts down the PortAudio subsystem.
// This should be deferred immediately after Initialize().
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// InputDevice retrieves the audio input device for the given device ID.
// If deviceID is config.MinDeviceID (-1), returns the system default
// input device. Returns an error if the device ID is invalid or no such
// device exists.
func InputDevice(deviceID int) (*portaudio.DeviceInfo, error) {
	devices, err := paDevices()
	if err != nil {
		return nil, err
	}

	if deviceID == config.MinDeviceID {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoInputDevice, err)
		}
		return device, nil
	}

	if deviceID < 0 || deviceID >= len(devices) {
		return nil, fmt.Errorf("%w: invalid device ID %d", ErrNoInputDevice, deviceID)
	}
	return devices[deviceID], nil
}

// paDevices returns all available PortAudio devices.
func paDevices() ([]*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	return devices, nil
}
