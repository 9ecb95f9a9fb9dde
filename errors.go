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

import "errors"

// ErrTooLarge is returned if an input is too large to be compared. That's the case if it exceeds
// the limit set with [MaxSize] or, for binary patches, if it can't be addressed with the 32-bit
// offsets of the patch format.
var ErrTooLarge = errors.New("bdiff: input too large")
