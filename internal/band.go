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


// A single band of a multi-band cube. Invalid samples are stored as NaN.
type Band struct {
	ID       int         // Sequential ID number, for log output. Counted upwards from 0 in cube order
	FileName string      // Original file name, if any, for log output

	Naxisn []int32       // Axis dimensions. Most quickly varying dimension first (i.e. X,Y)
	Pixels int64         // Number of pixels in the band. Product of Naxisn[]

	Data   []float32     // The band data, row-major

	Exposure float32     // Exposure weight, typically the exposure time in seconds

	Stats  *BasicStats   // Basic statistics: min, mean, max. Nil until calculated
}

// Creates a band of the given size, with all samples set to zero
func NewBand(id int, width, height int32) *Band {
	return &Band{
		ID:     id,
		Naxisn: []int32{width, height},
		Pixels: int64(width)*int64(height),
		Data:   make([]float32, int(width)*int(height)),
	}
}

// Creates a band of the given size with the given data, which is used without copying
func NewBandFromData(id int, width, height int32, data []float32, exposure float32) *Band {
	return &Band{
		ID:       id,
		Naxisn:   []int32{width, height},
		Pixels:   int64(width)*int64(height),
		Data:     data,
		Exposure: exposure,
	}
}

// Creates a band of the given size, with all samples marked invalid
func NewNaNBand(id int, width, height int32) *Band {
	b:=NewBand(id, width, height)
	Fill(b.Data, float32(math.NaN()))
	return b
}

func (b *Band) Width()  int32 { return b.Naxisn[0] }
func (b *Band) Height() int32 { return b.Naxisn[1] }

// Returns the sample at the given column and row
func (b *Band) At(x, y int32) float32 { return b.Data[int(x)+int(y)*int(b.Naxisn[0])] }

// Sets the sample at the given column and row
func (b *Band) Set(x, y int32, v float32) { b.Data[int(x)+int(y)*int(b.Naxisn[0])]=v }

// Deep copy of the band, excluding stats
func (b *Band) Clone() *Band {
	c:=&Band{
		ID:       b.ID,
		FileName: b.FileName,
		Naxisn:   append([]int32(nil), b.Naxisn...),
		Pixels:   b.Pixels,
		Data:     make([]float32, len(b.Data)),
		Exposure: b.Exposure,
	}
	copy(c.Data, b.Data)
	return c
}

// Number of invalid samples in the band
func (b *Band) CountNaN() int {
	n:=0
	for _,v:=range b.Data {
		if math.IsNaN(float64(v)) { n++ }
	}
	return n
}

func (b *Band) String() string {
	return fmt.Sprintf("band %d %dx%d exposure %g", b.ID, b.Width(), b.Height(), b.Exposure)
}


// Displacement of a band in samples, relative to the reference band
type ShiftVector struct {
	DX float64 `yaml:"dx" json:"dx"`
	DY float64 `yaml:"dy" json:"dy"`
}

func (s ShiftVector) String() string { return fmt.Sprintf("(%.3f,%.3f)", s.DX, s.DY) }


// An ordered sequence of bands. Adjacent bands are the ones whose relative shift was measured
type Cube []*Band

// Returns the common shape of all bands, or a ShapeMismatchError naming the first offending band
func (c Cube) Shape() (width, height int32, err error) {
	if len(c)==0 { return 0, 0, ErrEmptyCube }
	width, height=c[0].Naxisn[0], c[0].Naxisn[1]
	for i, b:=range c[1:] {
		if b.Naxisn[0]!=width || b.Naxisn[1]!=height {
			return 0, 0, &ShapeMismatchError{Index:i+1, Want:[]int32{width, height}, Got:b.Naxisn}
		}
	}
	return width, height, nil
}

// Returns the maximum extent across all bands along each axis
func (c Cube) MaxShape() (width, height int32) {
	for _, b:=range c {
		if b.Naxisn[0]>width  { width =b.Naxisn[0] }
		if b.Naxisn[1]>height { height=b.Naxisn[1] }
	}
	return width, height
}

// Pads all bands with invalid samples on the right and bottom to the largest common shape.
// Bands already of that shape are passed through without copying
func (c Cube) PadToCommonShape() Cube {
	width, height:=c.MaxShape()
	res:=make(Cube, len(c))
	for i, b:=range c {
		if b.Naxisn[0]==width && b.Naxisn[1]==height {
			res[i]=b
			continue
		}
		p:=NewNaNBand(b.ID, width, height)
		p.FileName, p.Exposure=b.FileName, b.Exposure
		paste(p.Data, width, b.Data, b.Naxisn[0], 0, 0)
		res[i]=p
	}
	return res
}

// Returns the exposure weights of all bands
func (c Cube) Exposures() []float32 {
	e:=make([]float32, len(c))
	for i, b:=range c { e[i]=b.Exposure }
	return e
}

// Deep copy of all bands
func (c Cube) Clone() Cube {
	res:=make(Cube, len(c))
	for i, b:=range c { res[i]=b.Clone() }
	return res
}


// Sets all elements of the slice to the given value
func Fill(data []float32, v float32) {
	for i:=range data { data[i]=v }
}
