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


// Removes border rows and columns which are invalid across the cube, returning the minimal
// bounding sub-cube. With crop, a location is droppable if any band is invalid there (overlap of
// all bands). Without crop, only if all bands are invalid there (union of all bands).
// Returns ErrEmptyResult if no location survives. Idempotent. Input bands are not modified
func TrimNaN(cube Cube, crop bool) (Cube, error) {
	width, height, err:=cube.Shape()
	if err!=nil { return nil, err }

	droppable:=droppableLocations(cube, crop)

	// bounding box of the locations to retain
	xMin, yMin, xMax, yMax:=width, height, int32(-1), int32(-1)
	for y:=int32(0); y<height; y++ {
		for x:=int32(0); x<width; x++ {
			if droppable[int(x)+int(y)*int(width)] { continue }
			if x<xMin { xMin=x }
			if x>xMax { xMax=x }
			if y<yMin { yMin=y }
			if y>yMax { yMax=y }
		}
	}
	if xMax<0 { return nil, ErrEmptyResult }

	res:=make(Cube, len(cube))
	for i, b:=range cube {
		data:=extract(b.Data, width, xMin, yMin, xMax+1, yMax+1)
		t:=NewBandFromData(b.ID, xMax+1-xMin, yMax+1-yMin, data, b.Exposure)
		t.FileName=b.FileName
		res[i]=t
	}
	return res, nil
}

// Per location, whether it can be dropped: invalid in any band with crop, invalid in all bands without
func droppableLocations(cube Cube, crop bool) []bool {
	pixels:=len(cube[0].Data)
	res:=make([]bool, pixels)
	for i:=0; i<pixels; i++ {
		numNaN:=0
		for _, b:=range cube {
			if math.IsNaN(float64(b.Data[i])) { numNaN++ }
		}
		if crop {
			res[i]=numNaN>0
		} else {
			res[i]=numNaN==len(cube)
		}
	}
	return res
}
