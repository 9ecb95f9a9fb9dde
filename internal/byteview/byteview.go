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

// Package byteview provides a mechanism to handle strings and []byte as immutable byte views.
package byteview

import (
	"encoding/binary"
	"slices"
	"sync"
	"unsafe"
)

// ByteView is an immutable view of a string or a byte slice. It never copies the underlying
// data.
type ByteView struct {
	data string
}

func From[T string | []byte](in T) ByteView {
	switch in := any(in).(type) {
	case string:
		return ByteView{in}
	case []byte:
		return ByteView{unsafe.String(unsafe.SliceData(in), len(in))}
	}
	panic("never reached")
}

func (v ByteView) Len() int { return len(v.data) }

// At returns the i-th byte of the view.
func (v ByteView) At(i int) byte { return v.data[i] }

// Slice returns the view of v[i:j].
func (v ByteView) Slice(i, j int) ByteView { return ByteView{v.data[i:j]} }

// Equal reports whether v and w contain the same bytes.
func (v ByteView) Equal(w ByteView) bool { return v.data == w.data }

// String returns the content of the view. It doesn't copy the data.
func (v ByteView) String() string { return v.data }

// Builder builds a string or []byte with as few allocations as possible.
type Builder[T string | []byte] struct {
	_   [0]sync.Mutex // don't copy
	buf []byte
}

// Reset makes the builder append to buf instead of a new buffer.
func (b *Builder[T]) Reset(buf []byte) {
	b.buf = buf
}

func (b *Builder[T]) Grow(n int) {
	b.buf = slices.Grow(b.buf, n)
}

func (b *Builder[T]) Write(v []byte) (n int, err error) {
	b.buf = append(b.buf, v...)
	return len(v), nil
}

func (b *Builder[T]) WriteByteView(v ByteView) (n int, err error) {
	b.buf = append(b.buf, v.data...)
	return len(v.data), nil
}

func (b *Builder[T]) WriteString(v string) (n int, err error) {
	b.buf = append(b.buf, v...)
	return len(v), nil
}

// WriteUint32 appends v in big-endian byte order.
func (b *Builder[T]) WriteUint32(v uint32) {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
}

func (b *Builder[T]) Build() T {
	defer func() {
		b.buf = nil
	}()
	switch any((*T)(nil)).(type) {
	case *string:
		return T(unsafe.String(unsafe.SliceData(b.buf), len(b.buf)))
	case *[]byte:
		return T(b.buf)
	}
	panic("never reached")
}
