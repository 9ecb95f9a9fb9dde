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

package textdiff

import (
	"znkr.io/bdiff"
	"znkr.io/bdiff/internal/config"
	"znkr.io/bdiff/textdiff/color"
)

// TerminalColors colors the unified output with ANSI escape sequences. Without options, the
// palette [color.Default] is used.
func TerminalColors(opts ...color.Option) bdiff.Option {
	cc := color.Default
	for _, opt := range opts {
		opt(&cc)
	}
	return func(cfg *config.Config) config.Flag {
		cfg.Color = &cc
		return config.Color
	}
}

// IndentHeuristic applies a heuristic to make diffs easier to read by improving the placement of
// changes.
//
// Changes can often be moved up or down along lines with equal content without changing their
// meaning. The heuristic shifts them to align with indentation patterns and blank lines, which
// is particularly effective with code and structured text. It only affects unified output.
func IndentHeuristic() bdiff.Option {
	return func(cfg *config.Config) config.Flag {
		cfg.IndentHeuristic = true
		return config.IndentHeuristic
	}
}
