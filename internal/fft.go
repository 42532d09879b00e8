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
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)


// Two-dimensional complex FFT on a row-major grid, built from gonum's 1D transforms.
// Not safe for concurrent use, as the underlying transforms keep work buffers.
type fft2D struct {
	width, height int
	rows, cols    *fourier.CmplxFFT
	colBuf        []complex128
}

func newFFT2D(width, height int) *fft2D {
	return &fft2D{
		width:  width,
		height: height,
		rows:   fourier.NewCmplxFFT(width),
		cols:   fourier.NewCmplxFFT(height),
		colBuf: make([]complex128, height),
	}
}

// Forward transform in place. Unnormalized
func (t *fft2D) forward(data []complex128) {
	for y:=0; y<t.height; y++ {
		row:=data[y*t.width:(y+1)*t.width]
		t.rows.Coefficients(row, row)
	}
	for x:=0; x<t.width; x++ {
		for y:=0; y<t.height; y++ { t.colBuf[y]=data[x+y*t.width] }
		t.cols.Coefficients(t.colBuf, t.colBuf)
		for y:=0; y<t.height; y++ { data[x+y*t.width]=t.colBuf[y] }
	}
}

// Inverse transform in place, normalized so that inverse(forward(x))==x
func (t *fft2D) inverse(data []complex128) {
	for y:=0; y<t.height; y++ {
		row:=data[y*t.width:(y+1)*t.width]
		t.rows.Sequence(row, row)
	}
	norm:=complex(1/float64(t.width*t.height), 0)
	for x:=0; x<t.width; x++ {
		for y:=0; y<t.height; y++ { t.colBuf[y]=data[x+y*t.width] }
		t.cols.Sequence(t.colBuf, t.colBuf)
		for y:=0; y<t.height; y++ { data[x+y*t.width]=t.colBuf[y]*norm }
	}
}

// Relative frequency of column x, in fftfreq order: DC first, then positive, then negative
func (t *fft2D) freqX(x int) float64 { return t.rows.Freq(x) }

// Relative frequency of row y, in fftfreq order
func (t *fft2D) freqY(y int) float64 { return t.cols.Freq(y) }


// Converts real data to complex, replacing NaNs with zero
func toComplexZeroNaN(data []float32) []complex128 {
	res:=make([]complex128, len(data))
	for i, v:=range data {
		if math.IsNaN(float64(v)) { continue }
		res[i]=complex(float64(v), 0)
	}
	return res
}

// Returns the real part of complex data
func realPart(data []complex128) []float32 {
	res:=make([]float32, len(data))
	for i, c:=range data { res[i]=float32(real(c)) }
	return res
}
