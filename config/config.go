/*
   pulsecore, a streaming OOK/FSK pulse-extraction core for sub-GHz ISM
   band sensor decoders.
   Copyright (C) 2015  Douglas Hall

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package config loads the YAML configuration for a pulsecore session.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Config is a session's static configuration: sampling parameters, an
// optional manual level override, and where to send diagnostics/dumps.
type Config struct {
	SampleRate uint32 `yaml:"sample_rate"`
	LevelLimit int16  `yaml:"level_limit"`

	RawDumpPath   string `yaml:"raw_dump_path"`
	VCDDumpPath   string `yaml:"vcd_dump_path"`
	CompressDumps bool   `yaml:"compress_dumps"`

	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration a lone Detector needs at minimum: a
// sample rate and nothing else. LevelLimit of zero means adaptive
// thresholding, matching pulse.Detector's own zero-value behavior.
func Default() Config {
	return Config{
		SampleRate: 1000000,
		LogLevel:   "info",
	}
}

// Load reads and validates a YAML configuration file, filling in Default's
// values for anything left unset.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decoding %s: %w", path, err)
	}

	if cfg.SampleRate == 0 {
		return cfg, fmt.Errorf("config: sample_rate must be nonzero")
	}

	return cfg, nil
}

// Log writes the effective configuration to logger at info level, one field
// per config setting, mirroring how the reference receiver logs its packet
// configuration on startup.
func (cfg Config) Log(logger *log.Logger) {
	logger.Info("session configuration",
		"sample_rate", cfg.SampleRate,
		"level_limit", cfg.LevelLimit,
		"raw_dump_path", cfg.RawDumpPath,
		"vcd_dump_path", cfg.VCDDumpPath,
		"compress_dumps", cfg.CompressDumps,
		"metrics_addr", cfg.MetricsAddr,
		"log_level", cfg.LogLevel,
	)
}
