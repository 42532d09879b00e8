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
	"math"
)


// Reduces an aligned cube into a single band by exposure-weighted averaging across bands.
// With crop, the cube is expected to be free of invalid samples and a plain weighted average is
// taken. Without crop, each pixel averages only over the bands valid there, weighted by their
// exposures. Pixels without any valid weight come out invalid (NaN).
func StackWeighted(cube Cube, exposures []float32, crop bool) (*Band, error) {
	width, height, err:=cube.Shape()
	if err!=nil { return nil, err }
	if len(exposures)!=len(cube) {
		return nil, fmt.Errorf("%d bands, %d exposures: %w", len(cube), len(exposures), ErrWeightCount)
	}
	exposureSum:=float32(0)
	for i, e:=range exposures {
		if e<0 || math.IsNaN(float64(e)) {
			return nil, fmt.Errorf("band %d exposure %g: %w", cube[i].ID, e, ErrNegativeWeight)
		}
		exposureSum+=e
	}

	data:=make([]float32, int(width)*int(height))
	if crop {
		stackMeanWeighted(cube, exposures, data)
	} else {
		stackMeanWeightedNaN(cube, exposures, data)
	}

	res:=NewBandFromData(0, width, height, data, exposureSum)
	return res, nil
}

// Weighted mean over all bands. Invalid samples propagate
func stackMeanWeighted(cube Cube, weights []float32, res []float32) {
	weightSum:=float64(0)
	for _, w:=range weights { weightSum+=float64(w) }

	for i:=range res {
		sum:=float64(0)
		for li, b:=range cube {
			sum+=float64(b.Data[i])*float64(weights[li])
		}
		res[i]=weightedMean(sum, weightSum)
	}
}

// Weighted mean over the bands which are valid at each pixel
func stackMeanWeightedNaN(cube Cube, weights []float32, res []float32) {
	for i:=range res {
		sum, weightSum:=float64(0), float64(0)
		for li, b:=range cube {
			value:=b.Data[i]
			if math.IsNaN(float64(value)) { continue }
			sum      +=float64(value)*float64(weights[li])
			weightSum+=float64(weights[li])
		}
		res[i]=weightedMean(sum, weightSum)
	}
}

// Zero total weight marks the sample invalid
func weightedMean(sum, weightSum float64) float32 {
	if weightSum==0 { return float32(math.NaN()) }
	return float32(sum/weightSum)
}
