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
	"sort"

	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/stat"
)


// Background model on a grid of tiles. Each tile contributes its sigma-clipped median,
// and the background between tile centers is interpolated bilinearly
type TileBackground struct {
	Sigma      float32  // Clipping bound in standard deviations around the median
	Iterations int      // Clipping iterations
	SampleSize int      // Tiles with more valid samples are randomly subsampled
}

func NewTileBackground() *TileBackground {
	return &TileBackground{Sigma:3, Iterations:5, SampleSize:4096}
}

func (tb *TileBackground) String() string {
	return fmt.Sprintf("tile background sigma %.2f iterations %d sampleSize %d", tb.Sigma, tb.Iterations, tb.SampleSize)
}

func (tb *TileBackground) Estimate(data []float32, width, height int32, tileSize int32) ([]float32, error) {
	if tileSize<1 { return nil, errors.New("background tile size must be positive") }
	if int(width)*int(height)!=len(data) {
		return nil, &ShapeMismatchError{Index:0, Want:[]int32{width, height}, Got:[]int32{int32(len(data))}}
	}
	gridW:=(width +tileSize-1)/tileSize
	gridH:=(height+tileSize-1)/tileSize

	grid:=make([]float32, int(gridW)*int(gridH))
	for gy:=int32(0); gy<gridH; gy++ {
		for gx:=int32(0); gx<gridW; gx++ {
			x0, y0:=gx*tileSize, gy*tileSize
			x1, y1:=minInt32(x0+tileSize, width), minInt32(y0+tileSize, height)
			grid[gx+gy*gridW]=tb.tileLevel(tb.gather(data, width, x0, y0, x1, y1))
		}
	}
	fillEmptyTiles(grid)

	// interpolate bilinearly between tile centers, clamping beyond the outermost ones
	bg:=make([]float32, len(data))
	half:=float32(tileSize)/2
	for y:=int32(0); y<height; y++ {
		fy, gy0, gy1:=gridCoord(y, half, tileSize, gridH)
		for x:=int32(0); x<width; x++ {
			fx, gx0, gx1:=gridCoord(x, half, tileSize, gridW)
			top:=grid[gx0+gy0*gridW]*(1-fx) + grid[gx1+gy0*gridW]*fx
			bot:=grid[gx0+gy1*gridW]*(1-fx) + grid[gx1+gy1*gridW]*fx
			bg[int(x)+int(y)*int(width)]=top*(1-fy) + bot*fy
		}
	}
	return bg, nil
}

// Valid samples in the rectangle [x0,x1)x[y0,y1), randomly subsampled if there are too many
func (tb *TileBackground) gather(data []float32, width, x0, y0, x1, y1 int32) []float64 {
	n:=int(x1-x0)*int(y1-y0)
	res:=make([]float64, 0, n)
	if tb.SampleSize>0 && n>tb.SampleSize {
		tw:=uint32(x1-x0)
		for i:=0; i<tb.SampleSize; i++ {
			j:=fastrand.Uint32n(uint32(n))
			v:=data[int(x0)+int(j%tw)+(int(y0)+int(j/tw))*int(width)]
			if !math.IsNaN(float64(v)) { res=append(res, float64(v)) }
		}
		return res
	}
	for y:=y0; y<y1; y++ {
		row:=int(y)*int(width)
		for _, v:=range data[row+int(x0):row+int(x1)] {
			if !math.IsNaN(float64(v)) { res=append(res, float64(v)) }
		}
	}
	return res
}

// Sigma-clipped median of the given values. NaN if empty
func (tb *TileBackground) tileLevel(values []float64) float32 {
	if len(values)==0 { return float32(math.NaN()) }
	sort.Float64s(values)
	for it:=0; it<tb.Iterations && len(values)>2; it++ {
		median:=stat.Quantile(0.5, stat.Empirical, values, nil)
		std:=stat.StdDev(values, nil)
		lo, hi:=median-float64(tb.Sigma)*std, median+float64(tb.Sigma)*std
		first:=sort.SearchFloat64s(values, lo)
		last :=sort.Search(len(values), func(i int) bool { return values[i]>hi })
		if first==0 && last==len(values) { break }
		if last-first<1 { break }
		values=values[first:last]
	}
	return float32(stat.Quantile(0.5, stat.Empirical, values, nil))
}

// Replaces tiles without valid samples with the median of all valid tiles
func fillEmptyTiles(grid []float32) {
	valid:=validFloat64s(grid)
	fill:=float32(0)
	if len(valid)>0 {
		sort.Float64s(valid)
		fill=float32(stat.Quantile(0.5, stat.Empirical, valid, nil))
	}
	for i, v:=range grid {
		if math.IsNaN(float64(v)) { grid[i]=fill }
	}
}

// Interpolation weight and the two neighbouring tile indices for pixel coordinate p
func gridCoord(p int32, half float32, tileSize, gridLen int32) (frac float32, lo, hi int32) {
	pos:=(float32(p)+0.5-half)/float32(tileSize)
	if pos<=0 { return 0, 0, 0 }
	if pos>=float32(gridLen-1) { return 0, gridLen-1, gridLen-1 }
	lo=int32(pos)
	return pos-float32(lo), lo, lo+1
}

func minInt32(a, b int32) int32 {
	if a<b { return a }
	return b
}


// Returns a copy of the band with the estimated background subtracted
func SubtractBackground(b *Band, est BackgroundEstimator, tileSize int32) (*Band, error) {
	bg, err:=est.Estimate(b.Data, b.Naxisn[0], b.Naxisn[1], tileSize)
	if err!=nil { return nil, err }
	res:=b.Clone()
	for i:=range res.Data {
		res.Data[i]-=bg[i]
	}
	return res, nil
}
