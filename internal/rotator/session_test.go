package rotator

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aircycle/aircycle/internal/adb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge scripts adb responses and records every call in order.
type fakeBridge struct {
	devices  []adb.Device
	devErr   error
	airplane string   // raw output of the airplane-mode query
	pingOK   []bool   // consumed per ping
	lookups  []string // consumed per curl call, raw bodies
	calls    []string
}

func (f *fakeBridge) Devices() ([]adb.Device, error) {
	f.calls = append(f.calls, "devices")
	return f.devices, f.devErr
}

func (f *fakeBridge) Shell(serial string, args ...string) (string, error) {
	cmd := strings.Join(args, " ")
	f.calls = append(f.calls, "shell "+cmd)
	switch {
	case cmd == "cmd connectivity airplane-mode":
		return f.airplane, nil
	case strings.HasPrefix(cmd, "curl"):
		if len(f.lookups) == 0 {
			return "", nil
		}
		body := f.lookups[0]
		f.lookups = f.lookups[1:]
		return body, nil
	}
	return "", nil
}

func (f *fakeBridge) ShellOK(serial string, args ...string) bool {
	f.calls = append(f.calls, "shell "+strings.Join(args, " "))
	if len(f.pingOK) == 0 {
		return true
	}
	ok := f.pingOK[0]
	f.pingOK = f.pingOK[1:]
	return ok
}

func (f *fakeBridge) Forward(serial string, localPort, remotePort int) error {
	f.calls = append(f.calls, fmt.Sprintf("forward %d %d", localPort, remotePort))
	return nil
}

func testSession(fb *fakeBridge) *Session {
	s := NewSession(fb, Options{})
	s.sleep = func(d time.Duration) {
		fb.calls = append(fb.calls, "sleep "+d.String())
	}
	return s
}

func TestNewSessionFillsDefaults(t *testing.T) {
	s := NewSession(&fakeBridge{}, Options{})
	assert.Equal(t, DefaultOptions(), s.opts)
}

func TestSelectDefault(t *testing.T) {
	fb := &fakeBridge{devices: []adb.Device{
		{Serial: "first", Transport: "1-1"},
		{Serial: "second", Transport: "1-2"},
	}}
	s := testSession(fb)

	require.NoError(t, s.SelectDefault())
	device, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "first", device.Serial)
}

func TestSelectDefaultNoDevices(t *testing.T) {
	s := testSession(&fakeBridge{})

	err := s.SelectDefault()
	assert.ErrorIs(t, err, ErrNoDevices)
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestDeviceScopedOpsRequireSelection(t *testing.T) {
	fb := &fakeBridge{}
	s := testSession(fb)

	ops := map[string]func() error{
		"AirplaneMode":    func() error { _, err := s.AirplaneMode(); return err },
		"SetAirplaneMode": func() error { return s.SetAirplaneMode(true) },
		"Ping":            func() error { _, err := s.Ping(); return err },
		"CurrentIP":       func() error { _, err := s.CurrentIP(); return err },
		"CurrentLocation": func() error { _, err := s.CurrentLocation(); return err },
		"Rotate":          func() error { _, err := s.Rotate(); return err },
		"Forward":         func() error { return s.Forward(8080, 9090) },
	}
	for name, op := range ops {
		assert.ErrorIs(t, op(), ErrNoDeviceSelected, name)
	}
	assert.Empty(t, fb.calls, "no adb call may happen without a selected device")
}

func TestAirplaneModeExactMatch(t *testing.T) {
	cases := []struct {
		output string
		want   bool
	}{
		{"Enable", true},
		{"Enable\n", false}, // trailing newline defeats the literal match
		{"Disable", false},
		{"", false},
	}
	for _, tc := range cases {
		fb := &fakeBridge{airplane: tc.output}
		s := testSession(fb)
		s.Select(adb.Device{Serial: "SER"})

		on, err := s.AirplaneMode()
		require.NoError(t, err)
		assert.Equal(t, tc.want, on, "output %q", tc.output)
	}
}

func TestSetAirplaneMode(t *testing.T) {
	fb := &fakeBridge{}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	require.NoError(t, s.SetAirplaneMode(true))
	require.NoError(t, s.SetAirplaneMode(false))
	assert.Equal(t, []string{
		"shell cmd connectivity airplane-mode enable",
		"shell cmd connectivity airplane-mode disable",
	}, fb.calls)
}

func TestPingCommandShape(t *testing.T) {
	fb := &fakeBridge{pingOK: []bool{true}}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	ok, err := s.Ping()
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, fb.calls, 1)
	assert.Equal(t, "shell ping -c 4 -w 10 www.google.com", fb.calls[0])
}

func TestCurrentIP(t *testing.T) {
	fb := &fakeBridge{lookups: []string{`{"query":"1.2.3.4","country":"X"}`}}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	ip, err := s.CurrentIP()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", ip)
}

func TestCurrentLocation(t *testing.T) {
	fb := &fakeBridge{lookups: []string{
		`{"query":"1.2.3.4","country":"Germany","countryCode":"DE","city":"Berlin","isp":"Telekom"}`,
	}}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	loc, err := s.CurrentLocation()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", loc.Query)
	assert.Equal(t, "Germany", loc.Country)
	assert.Equal(t, "DE", loc.CountryCode)
	assert.Equal(t, "Berlin", loc.City)
	assert.Equal(t, "Telekom", loc.ISP)
}

func TestCurrentIPMalformed(t *testing.T) {
	for _, body := range []string{"<html>not json</html>", "", `{"country":"X"}`} {
		fb := &fakeBridge{lookups: []string{body}}
		s := testSession(fb)
		s.Select(adb.Device{Serial: "SER"})

		_, err := s.CurrentIP()
		assert.ErrorIs(t, err, ErrMalformedResponse, "body %q", body)
	}
}

func TestRotateChanged(t *testing.T) {
	fb := &fakeBridge{
		pingOK:  []bool{true, true},
		lookups: []string{`{"query":"1.2.3.4"}`, `{"query":"5.6.7.8"}`},
	}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	result, err := s.Rotate()
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "1.2.3.4", result.PreviousIP)
	assert.Equal(t, "5.6.7.8", result.CurrentIP)

	assert.Equal(t, []string{
		"shell ping -c 4 -w 10 www.google.com",
		"shell curl -s ip-api.com/json/",
		"shell cmd connectivity airplane-mode enable",
		"sleep 5s",
		"shell cmd connectivity airplane-mode disable",
		"sleep 10s",
		"shell ping -c 4 -w 10 www.google.com",
		"shell curl -s ip-api.com/json/",
	}, fb.calls)
}

func TestRotateUnchanged(t *testing.T) {
	fb := &fakeBridge{
		pingOK:  []bool{true, true},
		lookups: []string{`{"query":"1.2.3.4"}`, `{"query":"1.2.3.4"}`},
	}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	result, err := s.Rotate()
	require.NoError(t, err)
	assert.False(t, result.Changed, "same address back from the carrier is not an error")
	assert.Equal(t, result.PreviousIP, result.CurrentIP)
}

func TestRotateAbortsBeforeToggleOnDeadLink(t *testing.T) {
	fb := &fakeBridge{pingOK: []bool{false}}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	_, err := s.Rotate()
	assert.ErrorIs(t, err, ErrConnectivity)
	for _, call := range fb.calls {
		assert.NotContains(t, call, "airplane-mode", "airplane mode must not be touched")
	}
}

func TestRotatePostToggleConnectivityFailure(t *testing.T) {
	fb := &fakeBridge{
		pingOK:  []bool{true, false},
		lookups: []string{`{"query":"1.2.3.4"}`},
	}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	_, err := s.Rotate()
	assert.ErrorIs(t, err, ErrConnectivity)
	// The toggle already happened: airplane mode was enabled then disabled.
	assert.Contains(t, fb.calls, "shell cmd connectivity airplane-mode enable")
	assert.Contains(t, fb.calls, "shell cmd connectivity airplane-mode disable")
}

func TestForwardUsesSelectedDevice(t *testing.T) {
	fb := &fakeBridge{}
	s := testSession(fb)
	s.Select(adb.Device{Serial: "SER"})

	require.NoError(t, s.Forward(8080, 9090))
	assert.Equal(t, []string{"forward 8080 9090"}, fb.calls)
}

func TestConfiguredDelays(t *testing.T) {
	fb := &fakeBridge{
		pingOK:  []bool{true, true},
		lookups: []string{`{"query":"1.2.3.4"}`, `{"query":"5.6.7.8"}`},
	}
	s := NewSession(fb, Options{
		SettleDelay:    2 * time.Second,
		ReconnectDelay: 3 * time.Second,
	})
	var sleeps []time.Duration
	s.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	s.Select(adb.Device{Serial: "SER"})

	_, err := s.Rotate()
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, sleeps)
}
