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
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)


// Wiener deconvolution in the frequency domain with a constant noise-to-signal balance
type WienerDeconvolver struct {
	Balance float64
}

func NewWienerDeconvolver(balance float64) *WienerDeconvolver {
	return &WienerDeconvolver{Balance:balance}
}

// Deconvolves data with the given square kernel, which is normalized to unit sum and
// centered on the origin. Invalid samples count as zero and stay invalid in the result
func (wd *WienerDeconvolver) Deconvolve(data []float32, width, height int32, kernel []float32, kernelWidth int32) ([]float32, error) {
	if int(kernelWidth)*int(kernelWidth)!=len(kernel) || kernelWidth<1 {
		return nil, fmt.Errorf("kernel of %d elements is not %dx%d", len(kernel), kernelWidth, kernelWidth)
	}
	if kernelWidth>width || kernelWidth>height {
		return nil, fmt.Errorf("kernel width %d exceeds image size %dx%d", kernelWidth, width, height)
	}
	kernelSum:=float64(0)
	for _, k:=range kernel { kernelSum+=float64(k) }
	if kernelSum==0 { return nil, errors.New("kernel sums to zero") }

	w, h:=int(width), int(height)
	t:=newFFT2D(w, h)

	// embed kernel with its center on the origin, wrapping circularly
	psf:=make([]complex128, w*h)
	c:=int(kernelWidth)/2
	for ky:=0; ky<int(kernelWidth); ky++ {
		for kx:=0; kx<int(kernelWidth); kx++ {
			x, y:=(kx-c+w)%w, (ky-c+h)%h
			psf[x+y*w]=complex(float64(kernel[kx+ky*int(kernelWidth)])/kernelSum, 0)
		}
	}
	t.forward(psf)

	img:=toComplexZeroNaN(data)
	t.forward(img)
	for i, H:=range psf {
		img[i]*=cmplx.Conj(H)/complex(real(H)*real(H)+imag(H)*imag(H)+wd.Balance, 0)
	}
	t.inverse(img)

	res:=realPart(img)
	ApplyMask(res, NaNMask(data))
	return res, nil
}


// Square kernel exp(-4(x²+y²)) on a [-1,1] grid of the given width
func GaussianKernel(width int32) []float32 {
	return radialKernel(width, func(r2 float64) float64 { return math.Exp(-4*r2) })
}

// Square kernel exp(-4·sqrt(x²+y²)) on a [-1,1] grid of the given width
func OneDivXKernel(width int32) []float32 {
	return radialKernel(width, func(r2 float64) float64 { return math.Exp(-4*math.Sqrt(r2)) })
}

func radialKernel(width int32, f func(r2 float64) float64) []float32 {
	side:=make([]float64, width)
	if width==1 {
		side[0]=-1
	} else {
		floats.Span(side, -1, 1)
	}
	k:=make([]float32, int(width)*int(width))
	for y, sy:=range side {
		for x, sx:=range side {
			k[x+y*int(width)]=float32(f(sx*sx+sy*sy))
		}
	}
	return k
}

// Returns the kernel named in the config, or an error for unknown names
func KernelByName(name string, width int32) ([]float32, error) {
	switch name {
	case "gaussian": return GaussianKernel(width), nil
	case "onedivx":  return OneDivXKernel(width), nil
	}
	return nil, fmt.Errorf("unknown deconvolution kernel %q", name)
}
