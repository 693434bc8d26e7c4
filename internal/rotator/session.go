package rotator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aircycle/aircycle/internal/adb"
)

// Bridge is the adb surface the session drives.
type Bridge interface {
	Devices() ([]adb.Device, error)
	Shell(serial string, args ...string) (string, error)
	ShellOK(serial string, args ...string) bool
	Forward(serial string, localPort, remotePort int) error
}

// Options tune the connectivity checks and the airplane-mode toggle delays.
type Options struct {
	PingHost       string
	PingCount      int
	PingDeadline   time.Duration
	SettleDelay    time.Duration
	ReconnectDelay time.Duration
	LookupURL      string
}

// DefaultOptions returns the stock rotation parameters.
func DefaultOptions() Options {
	return Options{
		PingHost:       "www.google.com",
		PingCount:      4,
		PingDeadline:   10 * time.Second,
		SettleDelay:    5 * time.Second,
		ReconnectDelay: 10 * time.Second,
		LookupURL:      "ip-api.com/json/",
	}
}

// Session drives IP rotation for one selected device. It is stateful and
// single-threaded: do not share a session across goroutines.
type Session struct {
	bridge  Bridge
	opts    Options
	current *adb.Device
	sleep   func(time.Duration)
}

// NewSession creates a session over the given adb bridge. Zero-valued
// options fall back to DefaultOptions.
func NewSession(bridge Bridge, opts Options) *Session {
	def := DefaultOptions()
	if opts.PingHost == "" {
		opts.PingHost = def.PingHost
	}
	if opts.PingCount == 0 {
		opts.PingCount = def.PingCount
	}
	if opts.PingDeadline == 0 {
		opts.PingDeadline = def.PingDeadline
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = def.SettleDelay
	}
	if opts.ReconnectDelay == 0 {
		opts.ReconnectDelay = def.ReconnectDelay
	}
	if opts.LookupURL == "" {
		opts.LookupURL = def.LookupURL
	}
	return &Session{bridge: bridge, opts: opts, sleep: time.Sleep}
}

// Result describes one rotation attempt.
type Result struct {
	PreviousIP string
	CurrentIP  string
	Changed    bool
}

// Devices lists connected devices. Not device-scoped.
func (s *Session) Devices() ([]adb.Device, error) {
	return s.bridge.Devices()
}

// Select makes device the session's current device. The device is not
// validated against the connected set.
func (s *Session) Select(device adb.Device) {
	s.current = &device
}

// SelectDefault selects the first connected device.
func (s *Session) SelectDefault() error {
	devices, err := s.bridge.Devices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return ErrNoDevices
	}
	s.current = &devices[0]
	return nil
}

// Selected returns the current device, if one is set.
func (s *Session) Selected() (adb.Device, bool) {
	if s.current == nil {
		return adb.Device{}, false
	}
	return *s.current, true
}

func (s *Session) requireDevice() (adb.Device, error) {
	if s.current == nil {
		return adb.Device{}, ErrNoDeviceSelected
	}
	return *s.current, nil
}

// AirplaneMode reports whether airplane mode is enabled on the current
// device. The connectivity service is expected to answer with the bare
// literal "Enable"; devices that append a trailing newline report false.
func (s *Session) AirplaneMode() (bool, error) {
	device, err := s.requireDevice()
	if err != nil {
		return false, err
	}
	out, err := s.bridge.Shell(device.Serial, "cmd", "connectivity", "airplane-mode")
	if err != nil {
		return false, err
	}
	return out == "Enable", nil
}

// SetAirplaneMode enables or disables airplane mode on the current device.
// The command is not verified: a follow-up AirplaneMode call is the only way
// to confirm it took effect.
func (s *Session) SetAirplaneMode(on bool) error {
	device, err := s.requireDevice()
	if err != nil {
		return err
	}
	state := "disable"
	if on {
		state = "enable"
	}
	_, err = s.bridge.Shell(device.Serial, "cmd", "connectivity", "airplane-mode", state)
	return err
}

// Ping checks connectivity from the current device by pinging the configured
// host. Returns true iff the device-side ping exits zero.
func (s *Session) Ping() (bool, error) {
	device, err := s.requireDevice()
	if err != nil {
		return false, err
	}
	deadline := int(s.opts.PingDeadline / time.Second)
	ok := s.bridge.ShellOK(device.Serial, "ping",
		"-c", strconv.Itoa(s.opts.PingCount),
		"-w", strconv.Itoa(deadline),
		s.opts.PingHost)
	return ok, nil
}

// CurrentIP returns the device's current external IP address.
func (s *Session) CurrentIP() (string, error) {
	loc, err := s.CurrentLocation()
	if err != nil {
		return "", err
	}
	return loc.Query, nil
}

// CurrentLocation returns the full geo record for the device's current
// external IP.
func (s *Session) CurrentLocation() (*Location, error) {
	device, err := s.requireDevice()
	if err != nil {
		return nil, err
	}
	out, err := s.bridge.Shell(device.Serial, "curl", "-s", s.opts.LookupURL)
	if err != nil {
		return nil, err
	}
	var loc Location
	if err := json.Unmarshal([]byte(out), &loc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if loc.Query == "" {
		return nil, fmt.Errorf("%w: missing query field", ErrMalformedResponse)
	}
	return &loc, nil
}

// Rotate cycles airplane mode on the current device and reports whether the
// external IP changed. An unchanged IP is a legitimate outcome, not an
// error: the carrier may hand the same address back. Once the toggle starts
// the sequence cannot be aborted; on failure after the toggle the device is
// left with airplane mode disabled and the caller must re-query state.
func (s *Session) Rotate() (Result, error) {
	if _, err := s.requireDevice(); err != nil {
		return Result{}, err
	}
	ok, err := s.Ping()
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("pre-toggle ping failed: %w", ErrConnectivity)
	}
	previous, err := s.CurrentIP()
	if err != nil {
		return Result{}, err
	}
	if err := s.SetAirplaneMode(true); err != nil {
		return Result{}, err
	}
	s.sleep(s.opts.SettleDelay)
	if err := s.SetAirplaneMode(false); err != nil {
		return Result{}, err
	}
	// Give the device time to reattach to the carrier network.
	s.sleep(s.opts.ReconnectDelay)
	ok, err = s.Ping()
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, fmt.Errorf("post-toggle ping failed: %w", ErrConnectivity)
	}
	current, err := s.CurrentIP()
	if err != nil {
		return Result{}, err
	}
	return Result{
		PreviousIP: previous,
		CurrentIP:  current,
		Changed:    current != previous,
	}, nil
}

// Forward sets up a TCP port forward from the host to the current device.
func (s *Session) Forward(localPort, remotePort int) error {
	device, err := s.requireDevice()
	if err != nil {
		return err
	}
	return s.bridge.Forward(device.Serial, localPort, remotePort)
}
