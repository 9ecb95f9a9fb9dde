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

package bdiff_test

import (
	"fmt"
	"log"

	"znkr.io/bdiff"
	"znkr.io/bdiff/patch"
)

func ExampleBlocks() {
	x := "A\nB\nC\nA\nB\nB\nA\n"
	y := "C\nB\nA\nB\nA\nC\n"
	blocks, err := bdiff.Blocks(x, y)
	if err != nil {
		log.Fatal(err)
	}
	for _, b := range blocks {
		fmt.Printf("x[%d:%d] == y[%d:%d]\n", b.PosX, b.EndX, b.PosY, b.EndY)
	}
	// Output:
	// x[0:2] == y[2:4]
	// x[2:3] == y[5:6]
}

func ExampleDiff() {
	x := "a\nb\nc\n"
	y := "a\nx\nc\n"
	p, err := bdiff.Diff(x, y)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%x\n", p)

	// The patch turns x into y.
	got, err := patch.Apply([]byte(x), p)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%q\n", got)
	// Output:
	// 000000020000000400000002780a
	// "a\nx\nc\n"
}

func ExampleMaxSize() {
	_, err := bdiff.Diff("a large input\n", "another large input\n", bdiff.MaxSize(8))
	fmt.Println(err)
	// Output:
	// bdiff: input too large: 14 bytes exceeds the limit of 8 bytes
}
