// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCube      = errors.New("cube has no bands")
	ErrEmptyResult    = errors.New("no valid rows or columns remain after trimming")
	ErrShapeMismatch  = errors.New("band shapes differ")
	ErrShiftCount     = errors.New("need exactly one shift per consecutive band pair")
	ErrWeightCount    = errors.New("need exactly one exposure weight per band")
	ErrNegativeWeight = errors.New("exposure weight is negative")
)

// A band whose shape differs from the one expected for the cube
type ShapeMismatchError struct {
	Index int
	Want  []int32
	Got   []int32
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("band %d has shape %v, expected %v", e.Index, e.Got, e.Want)
}

func (e *ShapeMismatchError) Is(target error) bool { return target==ErrShapeMismatch }
