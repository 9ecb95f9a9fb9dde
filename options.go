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

package bdiff

import "znkr.io/bdiff/internal/config"

// Option configures the behavior of comparison functions.
type Option = config.Option

// Context sets the number of matching lines to include before and after changes in unified
// output. The default is 3.
//
// This option is only supported by the functions in [znkr.io/bdiff/textdiff].
//
// [znkr.io/bdiff/textdiff]: https://pkg.go.dev/znkr.io/bdiff/textdiff
func Context(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Context = max(0, n)
		return config.Context
	}
}

// MaxSize limits the size of inputs to n bytes. Functions return [ErrTooLarge] if an input is
// larger than that. The default is no limit.
//
// The running time of the comparison functions is superlinear in the worst case, use this
// option to bound the cost of comparing untrusted inputs.
func MaxSize(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxSize = max(0, n)
		return config.MaxSize
	}
}
