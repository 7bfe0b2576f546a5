// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package space enumerates the Cartesian product of parameter axes without
// materializing it. Every index in [0, Size()) decodes to exactly one
// combination using mixed-radix decomposition: textual axes are the low-order
// digits, integral axes the high-order ones.
package space

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyAxis is returned when an axis has no candidate values.
	ErrEmptyAxis = errors.New("axis has no candidate values")
	// ErrIndexOutOfRange is returned when decoding an index outside [0, Size()).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTooLarge is returned when the product of axis sizes overflows int.
	ErrTooLarge = errors.New("configuration space too large")
)

// Tuple holds one concrete value per axis, in axis order.
type Tuple struct {
	Text []string
	Ints []int
}

// Space is an immutable product of textual and integral axes.
type Space struct {
	text [][]string
	ints [][]int

	textSize int
	size     int
}

// New validates the axes and returns a Space over them.
// Axes are copied, so later changes to the arguments do not affect the Space.
func New(text [][]string, ints [][]int) (*Space, error) {
	s := &Space{
		text:     make([][]string, len(text)),
		ints:     make([][]int, len(ints)),
		textSize: 1,
		size:     1,
	}

	for i, axis := range text {
		if len(axis) == 0 {
			return nil, errors.Wrapf(ErrEmptyAxis, "textual axis %d", i)
		}
		s.text[i] = append([]string(nil), axis...)
		if !mulFits(s.textSize, len(axis)) {
			return nil, ErrTooLarge
		}
		s.textSize *= len(axis)
	}

	s.size = s.textSize
	for i, axis := range ints {
		if len(axis) == 0 {
			return nil, errors.Wrapf(ErrEmptyAxis, "integral axis %d", i)
		}
		s.ints[i] = append([]int(nil), axis...)
		if !mulFits(s.size, len(axis)) {
			return nil, ErrTooLarge
		}
		s.size *= len(axis)
	}

	return s, nil
}

func mulFits(a, b int) bool {
	return b == 0 || a <= math.MaxInt/b
}

// Size returns the number of combinations. An empty space has size 1.
func (s *Space) Size() int {
	return s.size
}

// Decode returns the combination at index.
func (s *Space) Decode(index int) (Tuple, error) {
	if index < 0 || index >= s.size {
		return Tuple{}, errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", index, s.size)
	}

	t := Tuple{
		Text: make([]string, 0, len(s.text)),
		Ints: make([]int, 0, len(s.ints)),
	}

	divisor := 1
	for _, axis := range s.text {
		t.Text = append(t.Text, axis[(index/divisor)%len(axis)])
		divisor *= len(axis)
	}

	high := index / s.textSize
	divisor = 1
	for _, axis := range s.ints {
		t.Ints = append(t.Ints, axis[(high/divisor)%len(axis)])
		divisor *= len(axis)
	}

	return t, nil
}
