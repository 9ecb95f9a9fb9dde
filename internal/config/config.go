// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// bdiff.Option.
package config

// Config collects all configurable parameters for comparison functions in this module.
type Config struct {
	// Context is the number of matches to include as a prefix and postfix for unified output.
	Context int

	// MaxSize is the maximum size of an input in bytes, 0 means unlimited.
	MaxSize int

	// Color configures terminal colors for unified output, nil means no colors.
	Color *ColorConfig

	// IndentHeuristic moves changes in unified output to positions that are easier to read.
	IndentHeuristic bool
}

// ColorConfig holds the escape sequences used to color unified output. An empty string leaves
// that part of the output uncolored.
type ColorConfig struct {
	HunkHeader string
	Match      string
	Delete     string
	Insert     string
}

// Default is the default configuration.
var Default = Config{
	Context:         3,
	MaxSize:         0,
	IndentHeuristic: false,
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	Context Flag = 1 << iota
	MaxSize
	Color
	IndentHeuristic
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case Context:
		return "bdiff.Context"
	case MaxSize:
		return "bdiff.MaxSize"
	case Color:
		return "textdiff.TerminalColors"
	case IndentHeuristic:
		return "textdiff.IndentHeuristic"
	default:
		panic("never reached")
	}
}
