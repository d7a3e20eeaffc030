package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".agentdash"

// DataDir returns the base data directory for agentdash.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

func dataPath(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}

// TokenPath returns the path to the API token file.
func TokenPath() (string, error) {
	return dataPath("token")
}

// AdminTokenPath returns the path to the token that unlocks settings writes.
func AdminTokenPath() (string, error) {
	return dataPath("admin_token")
}

// CoreConfigPath returns the path to the daemon configuration file.
func CoreConfigPath() (string, error) {
	return dataPath("config.toml")
}

// UIConfigPath returns the path to the terminal UI configuration file.
func UIConfigPath() (string, error) {
	return dataPath("ui.toml")
}

// KeybindingsPath returns the default keybindings override file.
func KeybindingsPath() (string, error) {
	return dataPath("keybindings.json")
}

// UIPrefsPath returns the path to the local UI preferences database.
func UIPrefsPath() (string, error) {
	return dataPath("ui.db")
}

func DaemonLogPath() (string, error) {
	return dataPath("daemon.log")
}

func UILogPath() (string, error) {
	return dataPath("ui.log")
}
