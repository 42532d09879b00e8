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
	"math/cmplx"
)


// Measures shifts by phase correlation: the peak of the normalized cross-power spectrum,
// refined to sub-pixel precision with a parabola through the peak and its neighbours
type PhaseCorrelation struct{}

// Returns the offset of target relative to reference. Invalid samples count as zero
func (PhaseCorrelation) Measure(reference, target *Band) (ShiftVector, error) {
	if _, _, err:=(Cube{reference, target}).Shape(); err!=nil { return ShiftVector{}, err }
	w, h:=int(reference.Naxisn[0]), int(reference.Naxisn[1])
	if w*h==0 { return ShiftVector{}, ErrEmptyResult }

	t:=newFFT2D(w, h)
	ref:=toComplexZeroNaN(reference.Data)
	tgt:=toComplexZeroNaN(target.Data)
	t.forward(ref)
	t.forward(tgt)

	// target shifted by +d yields a delta at +d in the inverse of tgt*conj(ref)
	for i:=range tgt {
		c:=tgt[i]*cmplx.Conj(ref[i])
		if a:=cmplx.Abs(c); a>1e-12 {
			tgt[i]=c/complex(a, 0)
		} else {
			tgt[i]=0
		}
	}
	t.inverse(tgt)

	peak, peakVal:=0, math.Inf(-1)
	for i, c:=range tgt {
		if v:=real(c); v>peakVal { peak, peakVal=i, v }
	}
	px, py:=peak%w, peak/w

	at:=func(x, y int) float64 { return real(tgt[((x+w)%w)+((y+h)%h)*w]) }
	dx:=float64(px)+parabolicPeak(at(px-1, py), peakVal, at(px+1, py))
	dy:=float64(py)+parabolicPeak(at(px, py-1), peakVal, at(px, py+1))

	// indices past the middle are negative offsets
	if dx>float64(w)/2 { dx-=float64(w) }
	if dy>float64(h)/2 { dy-=float64(h) }
	return ShiftVector{dx, dy}, nil
}

// Offset of the vertex of the parabola through three equidistant samples, relative to the middle one
func parabolicPeak(left, mid, right float64) float64 {
	denom:=left-2*mid+right
	if denom==0 { return 0 }
	off:=0.5*(left-right)/denom
	if off < -0.5 { off=-0.5 }
	if off> 0.5 { off= 0.5 }
	return off
}
