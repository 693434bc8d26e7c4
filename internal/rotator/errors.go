package rotator

import "errors"

var (
	// ErrNoDeviceSelected is returned by device-scoped operations when the
	// session has no current device. No adb call is made in that case.
	ErrNoDeviceSelected = errors.New("no device selected")

	// ErrNoDevices is returned by SelectDefault when discovery finds no
	// connected devices.
	ErrNoDevices = errors.New("no devices connected")

	// ErrConnectivity is returned when a ping check fails before or after
	// the airplane-mode toggle.
	ErrConnectivity = errors.New("internet on device not working")

	// ErrMalformedResponse is returned when the IP lookup body is not valid
	// JSON or is missing the IP address field.
	ErrMalformedResponse = errors.New("malformed ip lookup response")
)
