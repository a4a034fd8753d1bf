// Copyright (c) 2025 The ZEDD Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// This package manages per-user settings and access tokens, stored in a
// platform-appropriate configuration directory. Access tokens are encrypted
// at rest.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// user preferences that persist between runs
type Settings struct {
	// true if uploads should target the Zenodo sandbox by default
	UseSandbox bool `json:"use_sandbox"`
	// directory in which the upload journal is kept (defaults to the
	// settings directory itself when empty)
	DataDirectory string `json:"data_directory,omitempty"`
	// community identifier applied to new depositions by default
	DefaultCommunity string `json:"default_community,omitempty"`
}

// Returns the per-user ZEDD configuration directory, creating it if needed:
// %APPDATA%\ZEDD on Windows, ~/Library/Application Support/ZEDD on macOS,
// $XDG_CONFIG_HOME/ZEDD (or ~/.config/ZEDD) elsewhere.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
	}
	dir := filepath.Join(base, "ZEDD")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// Loads settings from the given directory. A missing settings file is not an
// error; defaults are returned.
func Load(dir string) (Settings, error) {
	var settings Settings
	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, &InvalidSettingsError{Message: err.Error()}
	}
	return settings, nil
}

// saves settings to the given directory
func Save(dir string, settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "settings.json"), data, 0600)
}
