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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipVertical(t *testing.T) {
	b:=bandFromFunc(0, 3, 2, 1, func(x, y int32) float32 { return float32(x+10*y) })
	f:=FlipVertical(b)
	assert.Equal(t, []float32{10, 11, 12, 0, 1, 2}, f.Data)
	assert.Equal(t, []float32{0, 1, 2, 10, 11, 12}, b.Data)
}

func TestCropEdges(t *testing.T) {
	b:=bandFromFunc(0, 5, 4, 2, func(x, y int32) float32 { return float32(x+10*y) })
	c, err:=CropEdges(b, 1, 2, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 3}, c.Naxisn)
	assert.Equal(t, []float32{11, 12, 21, 22, 31, 32}, c.Data)
	assert.Equal(t, float32(2), c.Exposure)

	_, err=CropEdges(b, 3, 2, 0, 0)
	assert.Error(t, err)
	_, err=CropEdges(b, -1, 0, 0, 0)
	assert.Error(t, err)
}

func TestPreProcessLoadedBand(t *testing.T) {
	b:=constBand(4, 20, 20, 1, 7)
	p:=&PreProcessParams{EdgeLeft:2, EdgeRight:2, EdgeTop:1, EdgeBottom:1, BackGrid:8, BackSigma:3}
	res, err:=PreProcessLoadedBand(b, p)
	require.NoError(t, err)
	assert.Equal(t, 4, res.ID)
	assert.Equal(t, []int32{16, 18}, res.Naxisn)
	require.NotNil(t, res.Stats)
	assert.InDelta(t, 0, res.Stats.Max, 1e-6)
	assert.InDelta(t, 0, res.Stats.Min, 1e-6)
}

func TestPreProcessLoadedBandReturnsCopy(t *testing.T) {
	b:=constBand(0, 4, 4, 1, 1)
	res, err:=PreProcessLoadedBand(b, &PreProcessParams{})
	require.NoError(t, err)
	assert.NotSame(t, b, res)
	res.Data[0]=9
	assert.Equal(t, float32(1), b.Data[0])
}

func TestPreProcessLoadedBandDeconvolution(t *testing.T) {
	b:=constBand(0, 16, 16, 1, 1)
	_, err:=PreProcessLoadedBand(b, &PreProcessParams{Deconv:"box", DeconvWidth:3})
	assert.Error(t, err)

	res, err:=PreProcessLoadedBand(b, &PreProcessParams{Deconv:"gaussian", DeconvWidth:3, DeconvBalance:0})
	require.NoError(t, err)
	// a constant field is unchanged by a unit-sum kernel
	for _, v:=range res.Data {
		assert.InDelta(t, 1, v, 1e-4)
	}
}
