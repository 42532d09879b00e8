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

	"golang.org/x/sync/errgroup"
)


// Parameters for registering the bands of a cube onto a common canvas
type RegisterParams struct {
	Crop    bool  `yaml:"crop"    json:"crop"`     // Keep only the overlap of all bands, instead of their union
	Workers int   `yaml:"workers" json:"workers"`  // Bands shifted in parallel. 0 selects automatically
}

// Print parameters for registration
func (p *RegisterParams) String() string {
	return fmt.Sprintf("crop %v workers %d", p.Crop, p.Workers)
}


// Index of the reference band, which stays unshifted. The middle band for odd and even counts
func ReferenceIndex(numBands int) int {
	return (numBands+1)/2 - 1
}

// Integrates the pairwise shifts of band i relative to band i+1 into cumulative shifts per band,
// relative to the reference band. Pairwise vectors describe how to move band i+1 back onto band i,
// so they are negated before summing. The reference band ends up at exactly (0,0)
func CumulativeShifts(pairwise []ShiftVector, ref int) []ShiftVector {
	walked:=make([]ShiftVector, len(pairwise)+1)
	for i, s:=range pairwise {
		walked[i+1]=ShiftVector{walked[i].DX-s.DX, walked[i].DY-s.DY}
	}
	base:=walked[ref]
	for i:=range walked {
		walked[i].DX-=base.DX
		walked[i].DY-=base.DY
	}
	return walked
}

// Per-axis minimum and maximum of the given shifts
func shiftBounds(walked []ShiftVector) (min, max ShiftVector) {
	min, max=walked[0], walked[0]
	for _, s:=range walked[1:] {
		min.DX, max.DX=math.Min(min.DX, s.DX), math.Max(max.DX, s.DX)
		min.DY, max.DY=math.Min(min.DY, s.DY), math.Max(max.DY, s.DY)
	}
	return min, max
}


// Output coordinate frame for assembling the shifted bands
type canvas struct {
	width, height int32  // Canvas extent
	x0, y0        int32  // Placement origin of the native frame
	x1, y1        int32  // End of the placement window
	nativeWidth   int32
	nativeHeight  int32
	crop          bool
}

// Sizes the canvas from the native band size and the range of cumulative shifts.
// In crop mode this is the overlap common to all shifted bands, else the union of their footprints
func newCanvas(width, height int32, walked []ShiftVector, crop bool) (*canvas, error) {
	min, max:=shiftBounds(walked)
	spanX, spanY:=max.DX-min.DX, max.DY-min.DY
	c:=&canvas{nativeWidth:width, nativeHeight:height, crop:crop}
	if crop {
		c.width =int32(math.Ceil(float64(width) -spanX))
		c.height=int32(math.Ceil(float64(height)-spanY))
		c.x0, c.y0=int32(math.Floor(max.DX)), int32(math.Floor(max.DY))
		if c.width<=0 || c.height<=0 {
			return nil, fmt.Errorf("shift range %.2fx%.2f exceeds band size %dx%d: %w", spanX, spanY, width, height, ErrEmptyResult)
		}
		c.x1, c.y1=c.x0+c.width, c.y0+c.height
		// guard against rounding in the span pushing the window past the native frame
		if c.x1>width  { c.x1, c.width =width,  width -c.x0 }
		if c.y1>height { c.y1, c.height=height, height-c.y0 }
	} else {
		c.width =int32(math.Ceil(float64(width) +spanX))
		c.height=int32(math.Ceil(float64(height)+spanY))
		c.x0, c.y0=int32(math.Floor(-min.DX)), int32(math.Floor(-min.DY))
		c.x1, c.y1=c.x0+width, c.y0+height
		// wrapped content moved past the window end must fit as well
		if w:=c.x1+int32(math.Floor(max.DX)); w>c.width  { c.width =w }
		if h:=c.y1+int32(math.Floor(max.DY)); h>c.height { c.height=h }
	}
	return c, nil
}

func (c *canvas) String() string {
	return fmt.Sprintf("canvas %dx%d window [%d,%d)x[%d,%d)", c.width, c.height, c.x0, c.x1, c.y0, c.y1)
}

// Bytes a single band placement holds at peak: complex transform buffers plus canvas
func (c *canvas) bytesPerBand() int64 {
	native:=int64(c.nativeWidth)*int64(c.nativeHeight)
	return native*(16+4+4+1) + int64(c.width)*int64(c.height)*4
}


// Registers the bands of a cube onto a common canvas. Takes one externally measured shift per
// consecutive band pair, describing band i relative to band i+1. The reference band is copied,
// all others are resampled with FloatShift, with their validity masks shifted alongside.
// In non-crop mode, content the circular shift wrapped around the native frame is moved to its
// true position outside the frame. The assembled cube is trimmed of invalid borders.
// Input bands are not modified. Bands of differing size are padded with invalid samples first.
func Register(cube Cube, pairwise []ShiftVector, p *RegisterParams) (Cube, error) {
	if len(cube)==0 { return nil, ErrEmptyCube }
	if len(pairwise)!=len(cube)-1 {
		return nil, fmt.Errorf("%d bands, %d shifts: %w", len(cube), len(pairwise), ErrShiftCount)
	}
	cube=cube.PadToCommonShape()
	width, height, err:=cube.Shape()
	if err!=nil { return nil, err }

	ref:=ReferenceIndex(len(cube))
	walked:=CumulativeShifts(pairwise, ref)
	c, err:=newCanvas(width, height, walked, p.Crop)
	if err!=nil { return nil, err }
	LogPrintf("Registering %d bands of %dx%d with reference band %d onto %s\n", len(cube), width, height, cube[ref].ID, c)

	workers:=p.Workers
	if workers<=0 { workers=MaxParallelism(c.bytesPerBand()) }

	// Each band owns its output buffer, so workers never share writes
	res:=make(Cube, len(cube))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, b:=range cube {
		i, b:=i, b
		g.Go(func() error {
			var data []float32
			if i==ref {
				data=c.placeReference(b.Data)
			} else {
				LogPrintf("%d: Shifting by %v\n", b.ID, walked[i])
				data=c.placeShifted(b.Data, walked[i])
			}
			out:=NewBandFromData(b.ID, c.width, c.height, data, b.Exposure)
			LogDebugf("%d: Placed %v\n", b.ID, out)
			out.FileName=b.FileName
			res[i]=out
			return nil
		})
	}
	if err:=g.Wait(); err!=nil { return nil, err }

	return TrimNaN(res, p.Crop)
}

// Places the reference band onto the canvas without resampling
func (c *canvas) placeReference(data []float32) []float32 {
	if c.crop {
		return extract(data, c.nativeWidth, c.x0, c.y0, c.x1, c.y1)
	}
	out:=make([]float32, int(c.width)*int(c.height))
	Fill(out, float32(math.NaN()))
	paste(out, c.width, data, c.nativeWidth, c.x0, c.y0)
	return out
}

// Places a non-reference band onto the canvas, shifted by its cumulative shift
func (c *canvas) placeShifted(data []float32, s ShiftVector) []float32 {
	arr:=FloatShift(data, c.nativeWidth, c.nativeHeight, s.DX, s.DY)
	ApplyMask(arr, ShiftMask(NaNMask(data), c.nativeWidth, c.nativeHeight, s.DX, s.DY))

	if c.crop {
		return extract(arr, c.nativeWidth, c.x0, c.y0, c.x1, c.y1)
	}

	out:=make([]float32, int(c.width)*int(c.height))
	Fill(out, float32(math.NaN()))
	c.repairWrapAround(arr, out, s)
	paste(out, c.width, arr, c.nativeWidth, c.x0, c.y0)
	return out
}


// Direction of a shift, keyed by the sign of dx and dy. Zero counts as negative
type quadrant int
const (
	quadPosPos quadrant = iota  // dx>0, dy>0
	quadPosNeg                  // dx>0, dy<=0
	quadNegPos                  // dx<=0, dy>0
	quadNegNeg                  // dx<=0, dy<=0
)

func quadrantOf(s ShiftVector) quadrant {
	switch {
	case s.DX>0 && s.DY>0: return quadPosPos
	case s.DX>0:           return quadPosNeg
	case s.DY>0:           return quadNegPos
	default:               return quadNegNeg
	}
}

// A wrapped-around region along one axis. Samples [src,src+n) of the shifted band
// belong at [dst,dst+n) on the canvas, and samples [cutLo,cutHi) are blanked in the band
type wrapSpan struct {
	src, n       int32
	cutLo, cutHi int32
	dst          int32
}

// Positive shift: content wrapped to the start of the axis belongs past the end of the window
func wrapAtStart(floor, ceil, end int32) wrapSpan {
	return wrapSpan{src:0, n:floor, cutLo:0, cutHi:ceil, dst:end}
}

// Negative shift: content wrapped to the end of the axis belongs before the start of the window
func wrapAtEnd(floor, ceil, native, zero int32) wrapSpan {
	return wrapSpan{src:native-floor, n:floor, cutLo:native-ceil, cutHi:native, dst:zero-floor}
}

// The full axis, unmoved
func fullSpan(native, zero int32) wrapSpan {
	return wrapSpan{src:0, n:native, cutLo:0, cutHi:native, dst:zero}
}

// Integer floor and ceiling of the absolute shift, limited to the native extent
func wrapExtent(shift float64, native int32) (floor, ceil int32) {
	a:=math.Abs(shift)
	floor, ceil=int32(math.Floor(a)), int32(math.Ceil(a))
	if floor>native { floor=native }
	if ceil >native { ceil =native }
	return floor, ceil
}

// Moves content the circular shift wrapped around the native frame to its true position on the
// canvas: first the corner block if both axes wrapped, then the edge strip along each axis.
// The zone between floor and ceil of the shift is blanked but not moved
func (c *canvas) repairWrapAround(arr, out []float32, s ShiftVector) {
	fx, cx:=wrapExtent(s.DX, c.nativeWidth)
	fy, cy:=wrapExtent(s.DY, c.nativeHeight)

	var xs, ys wrapSpan
	if s.DX>0 { xs=wrapAtStart(fx, cx, c.x1) } else { xs=wrapAtEnd(fx, cx, c.nativeWidth,  c.x0) }
	if s.DY>0 { ys=wrapAtStart(fy, cy, c.y1) } else { ys=wrapAtEnd(fy, cy, c.nativeHeight, c.y0) }

	if fx!=0 && fy!=0 {
		switch quadrantOf(s) {
		case quadPosPos:
			c.moveRegion(arr, out, wrapAtStart(fx, cx, c.x1), wrapAtStart(fy, cy, c.y1))
		case quadPosNeg:
			c.moveRegion(arr, out, wrapAtStart(fx, cx, c.x1), wrapAtEnd(fy, cy, c.nativeHeight, c.y0))
		case quadNegPos:
			c.moveRegion(arr, out, wrapAtEnd(fx, cx, c.nativeWidth, c.x0), wrapAtStart(fy, cy, c.y1))
		case quadNegNeg:
			c.moveRegion(arr, out, wrapAtEnd(fx, cx, c.nativeWidth, c.x0), wrapAtEnd(fy, cy, c.nativeHeight, c.y0))
		}
	}
	if fx!=0 {
		c.moveRegion(arr, out, xs, fullSpan(c.nativeHeight, c.y0))
	}
	if fy!=0 {
		c.moveRegion(arr, out, fullSpan(c.nativeWidth, c.x0), ys)
	}
}

// Copies a region out of the shifted band, blanks it in the band, and pastes the copy onto the canvas
func (c *canvas) moveRegion(arr, out []float32, xs, ys wrapSpan) {
	block:=extract(arr, c.nativeWidth, xs.src, ys.src, xs.src+xs.n, ys.src+ys.n)
	blank(arr, c.nativeWidth, xs.cutLo, ys.cutLo, xs.cutHi, ys.cutHi)
	paste(out, c.width, block, xs.n, xs.dst, ys.dst)
}


// Copies the rectangle [x0,x1)x[y0,y1) out of src with the given width into a new array
func extract(src []float32, srcWidth int32, x0, y0, x1, y1 int32) []float32 {
	w, h, sw:=int(x1-x0), int(y1-y0), int(srcWidth)
	res:=make([]float32, w*h)
	for y:=0; y<h; y++ {
		row:=(int(y0)+y)*sw
		copy(res[y*w:(y+1)*w], src[row+int(x0):row+int(x1)])
	}
	return res
}

// Marks the rectangle [x0,x1)x[y0,y1) of dst with the given width as invalid
func blank(dst []float32, dstWidth int32, x0, y0, x1, y1 int32) {
	nan:=float32(math.NaN())
	dw:=int(dstWidth)
	for y:=int(y0); y<int(y1); y++ {
		Fill(dst[y*dw+int(x0):y*dw+int(x1)], nan)
	}
}

// Writes src with the given width into dst with the given width, at offset (x0,y0)
func paste(dst []float32, dstWidth int32, src []float32, srcWidth int32, x0, y0 int32) {
	if srcWidth==0 { return }
	sw, dw:=int(srcWidth), int(dstWidth)
	h:=len(src)/sw
	for y:=0; y<h; y++ {
		row:=(int(y0)+y)*dw+int(x0)
		copy(dst[row:row+sw], src[y*sw:(y+1)*sw])
	}
}
