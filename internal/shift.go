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
)


// Shifts data of the given size by a fractional number of samples, using a phase ramp in the
// frequency domain. The shift is circular: content leaving one edge re-enters at the opposite one.
// NaNs are treated as zero, so callers needing masked results must re-apply the mask with ShiftMask.
// Returns a new array, the input is not modified.
func FloatShift(data []float32, width, height int32, dx, dy float64) []float32 {
	w, h:=int(width), int(height)
	if w*h==0 { return []float32{} }

	buf:=toComplexZeroNaN(data)
	t:=newFFT2D(w, h)
	t.forward(buf)

	// exp(-i 2pi (dx fx + dy fy)) factors into a row and a column term
	kx:=make([]complex128, w)
	for x:=range kx { kx[x]=phaseRamp(dx*t.freqX(x)) }
	for y:=0; y<h; y++ {
		ky:=phaseRamp(dy*t.freqY(y))
		row:=buf[y*w:(y+1)*w]
		for x:=range row {
			row[x]*=kx[x]*ky
		}
	}

	t.inverse(buf)
	return realPart(buf)
}

// Returns exp(-i 2pi phase)
func phaseRamp(phase float64) complex128 {
	s, c:=math.Sincos(-2*math.Pi*phase)
	return complex(c, s)
}

// Circularly rolls data of the given size by whole samples, so that sample (x,y) moves to
// (x+dx, y+dy) modulo the size. Matches FloatShift for integer shifts, up to rounding.
// NaNs are treated as zero like in FloatShift
func Roll(data []float32, width, height int32, dx, dy int) []float32 {
	w, h:=int(width), int(height)
	res:=make([]float32, w*h)
	if w*h==0 { return res }
	dx, dy=((dx%w)+w)%w, ((dy%h)+h)%h
	for y:=0; y<h; y++ {
		ty:=(y+dy)%h
		for x:=0; x<w; x++ {
			v:=data[x+y*w]
			if math.IsNaN(float64(v)) { v=0 }
			res[(x+dx)%w+ty*w]=v
		}
	}
	return res
}
