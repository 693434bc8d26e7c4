package adb

// Device represents one entry from `adb devices -l`.
type Device struct {
	Serial    string // adb-reported serial identifier
	Transport string // connection transport descriptor, e.g. the USB bus id
}
