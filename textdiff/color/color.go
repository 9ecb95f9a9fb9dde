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

// Package color configures the terminal colors used by [textdiff.TerminalColors].
//
// Colors are given as SGR parameters, e.g., Deletes(1, 31) renders deleted lines in bold red.
//
// [textdiff.TerminalColors]: https://pkg.go.dev/znkr.io/bdiff/textdiff#TerminalColors
package color

import (
	"strconv"

	"znkr.io/bdiff/internal/config"
)

// Reset is the escape sequence that resets all colors.
const Reset = "\033[0m"

// Default is the palette used if no options are given: cyan hunk headers, red deletions, and
// green insertions. Matching lines are not colored.
var Default = config.ColorConfig{
	HunkHeader: sgr(36),
	Delete:     sgr(31),
	Insert:     sgr(32),
}

// An Option overrides a color of the default palette.
type Option func(*config.ColorConfig)

// HunkHeaders colors hunk headers, the "@@ ... @@" line of a hunk.
func HunkHeaders(params ...int) Option {
	code := sgr(params...)
	return func(cc *config.ColorConfig) { cc.HunkHeader = code }
}

// Matches colors context lines.
func Matches(params ...int) Option {
	code := sgr(params...)
	return func(cc *config.ColorConfig) { cc.Match = code }
}

// Deletes colors deleted lines.
func Deletes(params ...int) Option {
	code := sgr(params...)
	return func(cc *config.ColorConfig) { cc.Delete = code }
}

// Inserts colors inserted lines.
func Inserts(params ...int) Option {
	code := sgr(params...)
	return func(cc *config.ColorConfig) { cc.Insert = code }
}

// sgr returns the escape sequence for the parameters. No parameters means no color.
func sgr(params ...int) string {
	if len(params) == 0 {
		return ""
	}
	b := []byte("\033[")
	for i, v := range params {
		if i > 0 {
			b = append(b, ';')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(append(b, 'm'))
}
