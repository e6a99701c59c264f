// Copyright (c) 2025-2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config defines the global configuration structure
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Codec   CodecConfig   `mapstructure:"codec"`
	Capture CaptureConfig `mapstructure:"capture"`
}

// LogConfig defines logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // Log file path, empty or "-" for stderr
}

// CodecConfig defines how frames are read and printed
type CodecConfig struct {
	CRC    bool   `mapstructure:"crc"`    // Frames carry the RTU CRC trailer
	Output string `mapstructure:"output"` // "text" or "yaml"
}

// CaptureConfig defines how packet captures are filtered
type CaptureConfig struct {
	Port     int    `mapstructure:"port"`      // Modbus/TCP server port
	SlaveIDs string `mapstructure:"slave_ids"` // Filter rules: "1", "1,2", "1-10"; empty keeps all
}

// Output formats
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// flagKeys maps configuration keys to the command line flags that override them.
var flagKeys = map[string]string{
	"log.level":         "log-level",
	"log.file":          "log-file",
	"codec.crc":         "crc",
	"codec.output":      "output",
	"capture.port":      "port",
	"capture.slave_ids": "slave-ids",
}

// LoadConfig loads configuration from file, then applies flags that were set on the command line.
// Without configFile the default locations are searched and a missing file is not an error.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/modbus-codec/")
		v.AddConfigPath("$HOME/.modbus-codec")
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("codec.crc", false)
	v.SetDefault("codec.output", OutputText)
	v.SetDefault("capture.port", 502)
	v.SetDefault("capture.slave_ids", "")

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate / Fixups
	config.Log.Level = strings.ToLower(config.Log.Level)
	config.Codec.Output = strings.ToLower(config.Codec.Output)
	if config.Codec.Output != OutputText && config.Codec.Output != OutputYAML {
		return nil, fmt.Errorf("invalid codec.output %q, want %q or %q", config.Codec.Output, OutputText, OutputYAML)
	}
	if config.Capture.Port < 1 || config.Capture.Port > 65535 {
		return nil, fmt.Errorf("invalid capture.port %d", config.Capture.Port)
	}

	return &config, nil
}
