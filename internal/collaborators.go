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
	"fmt"
)


// Estimates the sky background of an array, given a tile size in pixels.
// Returns a background array of the same size to subtract
type BackgroundEstimator interface {
	Estimate(data []float32, width, height int32, tileSize int32) ([]float32, error)
}

// Adapter to use an ordinary function as BackgroundEstimator
type BackgroundEstimatorFunc func(data []float32, width, height int32, tileSize int32) ([]float32, error)

func (f BackgroundEstimatorFunc) Estimate(data []float32, width, height int32, tileSize int32) ([]float32, error) {
	return f(data, width, height, tileSize)
}


// Restores an array blurred by a known point spread function.
// The kernel is square with the given width
type Deconvolver interface {
	Deconvolve(data []float32, width, height int32, kernel []float32, kernelWidth int32) ([]float32, error)
}

// Adapter to use an ordinary function as Deconvolver
type DeconvolverFunc func(data []float32, width, height int32, kernel []float32, kernelWidth int32) ([]float32, error)

func (f DeconvolverFunc) Deconvolve(data []float32, width, height int32, kernel []float32, kernelWidth int32) ([]float32, error) {
	return f(data, width, height, kernel, kernelWidth)
}


// Measures the offset of target relative to reference, in samples. Register negates
// the measured vectors, so a measurer returns where target content sits relative to reference
type ShiftMeasurer interface {
	Measure(reference, target *Band) (ShiftVector, error)
}

// Adapter to use an ordinary function as ShiftMeasurer
type ShiftMeasurerFunc func(reference, target *Band) (ShiftVector, error)

func (f ShiftMeasurerFunc) Measure(reference, target *Band) (ShiftVector, error) {
	return f(reference, target)
}

// Measures the pairwise shifts of each band i relative to band i+1
func MeasurePairwiseShifts(cube Cube, m ShiftMeasurer) ([]ShiftVector, error) {
	if len(cube)==0 { return nil, ErrEmptyCube }
	shifts:=make([]ShiftVector, len(cube)-1)
	for i:=0; i<len(cube)-1; i++ {
		s, err:=m.Measure(cube[i], cube[i+1])
		if err!=nil { return nil, fmt.Errorf("measuring band %d against %d: %w", cube[i+1].ID, cube[i].ID, err) }
		LogPrintf("%d: Measured shift %v relative to band %d\n", cube[i+1].ID, s, cube[i].ID)
		shifts[i]=s
	}
	return shifts, nil
}
