// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultInstallCommand is run by --install-if-needed when nothing is configured.
	DefaultInstallCommand = "npm install"
	// DefaultStateDir holds the install state, relative to the project root.
	DefaultStateDir = ".berry"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Pack    PackConfig    `json:"pack" mapstructure:"pack"`
		Install InstallConfig `json:"install" mapstructure:"install"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// PackConfig holds defaults for the pack command.
	PackConfig struct {
		// Out is the output path template used when --out is not given.
		Out string `json:"out" mapstructure:"out"`
		// InstallIfNeeded runs the install command instead of restoring state.
		InstallIfNeeded bool `json:"install_if_needed" mapstructure:"install_if_needed"`
	}

	// InstallConfig controls how dependencies are installed before pack scripts run.
	InstallConfig struct {
		// Command is the shell command that installs dependencies.
		Command string `json:"command" mapstructure:"command"`
		// StateDir is where install state is kept, relative to the project root.
		StateDir string `json:"state_dir" mapstructure:"state_dir"`
	}

	// UIConfig holds UI-related configuration.
	UIConfig struct {
		// JSON renders the report as newline-delimited JSON.
		JSON bool `json:"json" mapstructure:"json"`
		// Verbose enables debug logging and detailed error output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Install: InstallConfig{
			Command:  DefaultInstallCommand,
			StateDir: DefaultStateDir,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns an error if the ColorScheme is not one of the defined schemes.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate checks constraints the schema cannot see once values come from
// the environment.
func (c Config) Validate() error {
	var errs []error
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Install.Command) == "" {
		errs = append(errs, errors.New("install.command must not be empty"))
	}
	if strings.TrimSpace(c.Install.StateDir) == "" {
		errs = append(errs, errors.New("install.state_dir must not be empty"))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
