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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWienerDeconvolveIdentityKernel(t *testing.T) {
	b:=bandFromFunc(0, 8, 6, 1, pattern)
	b.Set(2, 3, float32(nan()))
	got, err:=NewWienerDeconvolver(0).Deconvolve(b.Data, 8, 6, []float32{1}, 1)
	require.NoError(t, err)
	for i, v:=range b.Data {
		if isNaN32(v) {
			assert.True(t, isNaN32(got[i]))
		} else {
			assert.InDelta(t, v, got[i], 1e-4)
		}
	}
}

// Circular convolution of data with a centered square kernel normalized to unit sum
func convolve(data []float32, width, height int32, kernel []float32, kw int32) []float32 {
	sum:=float32(0)
	for _, k:=range kernel { sum+=k }
	res:=make([]float32, len(data))
	c:=kw/2
	for y:=int32(0); y<height; y++ {
		for x:=int32(0); x<width; x++ {
			acc:=float32(0)
			for ky:=int32(0); ky<kw; ky++ {
				for kx:=int32(0); kx<kw; kx++ {
					sx, sy:=(x-(kx-c)+width)%width, (y-(ky-c)+height)%height
					acc+=data[sx+sy*width]*kernel[kx+ky*kw]/sum
				}
			}
			res[x+y*width]=acc
		}
	}
	return res
}

func TestWienerDeconvolveSharpensPointSource(t *testing.T) {
	w, h:=int32(16), int32(16)
	point:=make([]float32, int(w*h))
	point[8+8*w]=1
	kernel:=GaussianKernel(3)
	blurred:=convolve(point, w, h, kernel, 3)

	got, err:=NewWienerDeconvolver(0.01).Deconvolve(blurred, w, h, kernel, 3)
	require.NoError(t, err)
	assert.Greater(t, got[8+8*w], blurred[8+8*w])
}

func TestWienerDeconvolveErrors(t *testing.T) {
	d:=NewWienerDeconvolver(0.1)
	_, err:=d.Deconvolve(make([]float32, 16), 4, 4, []float32{1, 2}, 2)
	assert.Error(t, err)
	_, err=d.Deconvolve(make([]float32, 16), 4, 4, make([]float32, 25), 5)
	assert.Error(t, err)
	_, err=d.Deconvolve(make([]float32, 16), 4, 4, make([]float32, 9), 3)
	assert.Error(t, err)
}

func TestKernels(t *testing.T) {
	g:=GaussianKernel(3)
	require.Len(t, g, 9)
	assert.Equal(t, float32(1), g[4])
	assert.InDelta(t, math.Exp(-4), g[1], 1e-6)
	assert.InDelta(t, math.Exp(-8), g[0], 1e-6)

	o:=OneDivXKernel(3)
	assert.InDelta(t, math.Exp(-4*math.Sqrt2), o[0], 1e-6)

	k, err:=KernelByName("gaussian", 5)
	require.NoError(t, err)
	assert.Len(t, k, 25)
	_, err=KernelByName("box", 5)
	assert.Error(t, err)
}
