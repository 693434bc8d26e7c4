package adb

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrInvalidPath is returned by New when the adb path does not exist or is
// not a regular file.
var ErrInvalidPath = errors.New("adb executable not found")

// runner executes a command and returns its combined output.
type runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Client wraps ADB command-line calls for a single adb binary.
type Client struct {
	path string
	run  runner
}

// New creates a client for the adb binary at path. The path must exist and
// be a regular file.
func New(path string) (*Client, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("adb path %q: %w", path, ErrInvalidPath)
	}
	return &Client{path: path, run: execRunner}, nil
}

// Path returns the adb executable path the client was constructed with.
func (c *Client) Path() string {
	return c.path
}

// Devices returns all connected ADB devices in the order adb reports them.
func (c *Client) Devices() ([]Device, error) {
	out, err := c.run(c.path, "devices", "-l")
	if err != nil {
		return nil, fmt.Errorf("adb devices: %w\n%s", err, out)
	}
	return parseDeviceList(string(out)), nil
}

// Shell runs a shell command on the device and returns its raw combined
// output. The output is not trimmed: callers that match on exact strings
// (the airplane-mode query) depend on that.
func (c *Client) Shell(serial string, args ...string) (string, error) {
	cmdArgs := append([]string{"-s", serial, "shell"}, args...)
	out, err := c.run(c.path, cmdArgs...)
	if err != nil {
		return "", fmt.Errorf("adb shell %s: %w\n%s", strings.Join(args, " "), err, out)
	}
	return string(out), nil
}

// ShellOK runs a shell command on the device and reports whether it exited
// with status zero.
func (c *Client) ShellOK(serial string, args ...string) bool {
	cmdArgs := append([]string{"-s", serial, "shell"}, args...)
	_, err := c.run(c.path, cmdArgs...)
	return err == nil
}

// Forward sets up a TCP port forward from the host to the device.
// Fire-and-forget: adb keeps the forward alive until its server restarts or
// the forward is removed by hand; the client does no bookkeeping.
func (c *Client) Forward(serial string, localPort, remotePort int) error {
	out, err := c.run(c.path, "-s", serial, "forward",
		fmt.Sprintf("tcp:%d", localPort), fmt.Sprintf("tcp:%d", remotePort))
	if err != nil {
		return fmt.Errorf("adb forward tcp:%d -> tcp:%d: %w\n%s", localPort, remotePort, err, out)
	}
	return nil
}

// parseDeviceList parses `adb devices -l` output. The identifier is the
// token before the first whitespace; the transport descriptor is the
// substring between the first colon and the whitespace that follows it
// (the value of the usb: field on USB devices).
func parseDeviceList(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "List of") {
			continue
		}
		serial := line
		if sp := strings.IndexAny(line, " \t"); sp >= 0 {
			serial = line[:sp]
		}
		if serial == "" {
			continue
		}
		transport := ""
		if colon := strings.IndexByte(line, ':'); colon >= 0 {
			rest := line[colon+1:]
			if end := strings.IndexAny(rest, " \t"); end >= 0 {
				transport = rest[:end]
			} else {
				transport = rest
			}
		}
		devices = append(devices, Device{Serial: serial, Transport: transport})
	}
	return devices
}
