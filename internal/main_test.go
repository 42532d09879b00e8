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

	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	SetLogger(zap.NewNop().Sugar())
	goleak.VerifyTestMain(m)
}

// Creates a band whose samples are given by f(x,y)
func bandFromFunc(id int, width, height int32, exposure float32, f func(x, y int32) float32) *Band {
	b:=NewBand(id, width, height)
	b.Exposure=exposure
	for y:=int32(0); y<height; y++ {
		for x:=int32(0); x<width; x++ {
			b.Set(x, y, f(x, y))
		}
	}
	return b
}

func constBand(id int, width, height int32, exposure, v float32) *Band {
	return bandFromFunc(id, width, height, exposure, func(x, y int32) float32 { return v })
}

func isNaN32(v float32) bool { return math.IsNaN(float64(v)) }

func nan() float64 { return math.NaN() }
