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


// Returns a validity mask which is true where the data is invalid (NaN)
func NaNMask(data []float32) []bool {
	mask:=make([]bool, len(data))
	for i, v:=range data {
		mask[i]=math.IsNaN(float64(v))
	}
	return mask
}

// Shifts a validity mask the same way FloatShift shifts the data it masks.
// A sample becomes invalid if more than half of its interpolation weight came from invalid samples
func ShiftMask(mask []bool, width, height int32, dx, dy float64) []bool {
	field:=make([]float32, len(mask))
	for i, m:=range mask {
		if m { field[i]=1 }
	}
	shifted:=FloatShift(field, width, height, dx, dy)
	res:=make([]bool, len(mask))
	for i, v:=range shifted {
		res[i]=v>0.5
	}
	return res
}

// Marks data as invalid wherever the mask is set. Modifies data in place
func ApplyMask(data []float32, mask []bool) {
	nan:=float32(math.NaN())
	for i, m:=range mask {
		if m { data[i]=nan }
	}
}
