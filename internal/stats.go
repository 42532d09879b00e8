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
	"sort"

	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)


// Basic statistics over the valid samples of an array
type BasicStats struct {
	Min    float32
	Max    float32
	Mean   float32
	StdDev float32
	Valid  int32    // Number of valid (non-NaN) samples
	Total  int32    // Number of samples
}

// Print basic statistics
func (s *BasicStats) String() string {
	return fmt.Sprintf("Min: %.2f;\tMean: %.2f;\tMax: %.2f;\tStdDev: %.2f;\tValid: %d of %d",
		s.Min, s.Mean, s.Max, s.StdDev, s.Valid, s.Total)
}

// Calculate basic statistics over the valid samples of data. All-NaN data yields NaN stats
func CalcBasicStats(data []float32) *BasicStats {
	valid:=validFloat64s(data)
	s:=&BasicStats{Valid:int32(len(valid)), Total:int32(len(data))}
	if len(valid)==0 {
		nan:=float32(math.NaN())
		s.Min, s.Max, s.Mean, s.StdDev=nan, nan, nan, nan
		return s
	}
	mean, std:=stat.MeanStdDev(valid, nil)
	if len(valid)<2 { std=0 }
	s.Min, s.Max=float32(floats.Min(valid)), float32(floats.Max(valid))
	s.Mean, s.StdDev=float32(mean), float32(std)
	return s
}

// Returns the valid samples of data as float64
func validFloat64s(data []float32) []float64 {
	valid:=make([]float64, 0, len(data))
	for _, v:=range data {
		if !math.IsNaN(float64(v)) { valid=append(valid, float64(v)) }
	}
	return valid
}


// Histogram of the valid samples of data with the given number of equal-width bins.
// Returns the bin counts and the bin dividers, which have one more entry than counts
func Histogram(data []float32, bins int) (counts, dividers []float64) {
	valid:=validFloat64s(data)
	if len(valid)==0 || bins<1 { return nil, nil }
	sort.Float64s(valid)
	min, max:=valid[0], valid[len(valid)-1]
	dividers=make([]float64, bins+1)
	floats.Span(dividers, min, max)
	dividers[bins]=math.Nextafter(max, math.Inf(1)) // last divider is exclusive
	counts=make([]float64, bins)
	stat.Histogram(counts, dividers, valid, nil)
	return counts, dividers
}


// Estimates the median of the valid samples of data. Uses a random subsample
// of the given size if data is larger, else the exact median
func QuickMedian(data []float32, sampleSize int) float32 {
	var samples []float32
	if len(data)<=sampleSize {
		samples=make([]float32, 0, len(data))
		for _, v:=range data {
			if !math.IsNaN(float64(v)) { samples=append(samples, v) }
		}
	} else {
		samples=make([]float32, 0, sampleSize)
		for i:=0; i<sampleSize; i++ {
			v:=data[fastrand.Uint32n(uint32(len(data)))]
			if !math.IsNaN(float64(v)) { samples=append(samples, v) }
		}
	}
	if len(samples)==0 { return float32(math.NaN()) }
	sort.Slice(samples, func(i, j int) bool { return samples[i]<samples[j] })
	mid:=len(samples)/2
	if len(samples)%2==0 { return (samples[mid-1]+samples[mid])/2 }
	return samples[mid]
}
