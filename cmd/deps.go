package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/aircycle/aircycle/internal/adb"
	"github.com/aircycle/aircycle/internal/config"
	"github.com/aircycle/aircycle/internal/logging"
	"github.com/aircycle/aircycle/internal/rotator"
)

type dependency struct {
	name       string
	binary     string
	installCmd map[string]string // GOOS -> install command
}

var dependencies = []dependency{
	{
		name:   "ADB (Android Debug Bridge)",
		binary: "adb",
		installCmd: map[string]string{
			"darwin":  "brew install android-platform-tools",
			"linux":   "sudo apt install android-tools-adb",
			"windows": "winget install Google.PlatformTools",
		},
	},
}

// checkDeps verifies that required external tools are installed.
// Returns nil if all deps are present or user declines to install.
func checkDeps() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.ADBPath != "" {
		// An explicit adb path overrides the PATH lookup.
		if _, err := adb.New(cfg.ADBPath); err != nil {
			return err
		}
		return nil
	}

	var missing []dependency
	for _, dep := range dependencies {
		if _, err := exec.LookPath(dep.binary); err != nil {
			if discoverADB() != "" {
				continue
			}
			missing = append(missing, dep)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	fmt.Println("aircycle requires the following tools that are not installed:")
	fmt.Println()
	for _, dep := range missing {
		fmt.Printf("  - %s (%s)\n", dep.name, dep.binary)
	}
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for _, dep := range missing {
		cmd, ok := dep.installCmd[runtime.GOOS]
		if !ok {
			fmt.Printf("Please install %s manually and try again.\n", dep.name)
			continue
		}

		fmt.Printf("Install %s with: %s\n", dep.name, cmd)
		fmt.Print("Run now? [Y/n] ")
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))

		if answer != "" && answer != "y" && answer != "yes" {
			fmt.Printf("Skipped. Install %s manually before using aircycle.\n", dep.name)
			continue
		}

		fmt.Printf("Running: %s\n", cmd)
		parts := strings.Fields(cmd)
		install := exec.Command(parts[0], parts[1:]...)
		install.Stdout = os.Stdout
		install.Stderr = os.Stderr
		install.Stdin = os.Stdin
		if err := install.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to install %s: %v\n", dep.name, err)
			fmt.Fprintf(os.Stderr, "Please install it manually and try again.\n")
		} else {
			fmt.Printf("%s installed successfully.\n\n", dep.name)
		}
	}

	// Re-check after install attempts
	for _, dep := range missing {
		if _, err := exec.LookPath(dep.binary); err != nil {
			return fmt.Errorf("%s is required but not installed", dep.binary)
		}
	}
	return nil
}

// resolveADBPath finds the adb binary: explicit config value first, then the
// PATH, then the Android SDK platform-tools locations.
func resolveADBPath(cfg *config.Config) (string, error) {
	if cfg.ADBPath != "" {
		return cfg.ADBPath, nil
	}
	if p, err := exec.LookPath("adb"); err == nil {
		return p, nil
	}
	if p := discoverADB(); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("adb not found: install platform-tools or set adb_path in %s", config.ConfigPath())
}

// discoverADB scans $ANDROID_HOME and $PATH for a platform-tools directory
// holding the adb binary.
func discoverADB() string {
	binary := "adb"
	if runtime.GOOS == "windows" {
		binary = "adb.exe"
	}

	var candidates []string
	if home := os.Getenv("ANDROID_HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, "platform-tools", binary))
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if filepath.Base(dir) == "platform-tools" {
			candidates = append(candidates, filepath.Join(dir, binary))
		}
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

// newSession builds a rotation session from the config: resolves adb,
// applies the configured delays, and enables file logging if requested.
func newSession() (*rotator.Session, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.LogFile != "" {
		if err := logging.EnableFileLogging(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays); err != nil {
			logging.Warnf("file logging disabled: %v", err)
		}
	}

	path, err := resolveADBPath(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := adb.New(path)
	if err != nil {
		return nil, nil, err
	}
	logging.Debugf("using adb at %s", path)

	session := rotator.NewSession(client, rotator.Options{
		PingHost:       cfg.PingHost,
		PingCount:      cfg.PingCount,
		PingDeadline:   time.Duration(cfg.PingDeadlineSeconds) * time.Second,
		SettleDelay:    time.Duration(cfg.SettleDelaySeconds) * time.Second,
		ReconnectDelay: time.Duration(cfg.ReconnectDelaySeconds) * time.Second,
		LookupURL:      cfg.LookupURL,
	})
	return session, cfg, nil
}

// selectDevice picks the device for a device-scoped command: the --device
// serial when given, otherwise the first connected device.
func selectDevice(session *rotator.Session, serial string) error {
	if serial == "" {
		return session.SelectDefault()
	}
	devices, err := session.Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		if d.Serial == serial {
			session.Select(d)
			return nil
		}
	}
	return fmt.Errorf("device %q not connected", serial)
}
