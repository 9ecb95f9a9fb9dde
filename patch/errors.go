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

package patch

import "errors"

var (
	// ErrTruncated is returned if a patch ends in the middle of a record.
	ErrTruncated = errors.New("patch: truncated record")

	// ErrInvalid is returned if a record ends before it starts or starts before the end of the
	// previous record.
	ErrInvalid = errors.New("patch: invalid record")

	// ErrOutOfRange is returned if a record refers to bytes beyond the end of the original.
	ErrOutOfRange = errors.New("patch: record out of range")
)
