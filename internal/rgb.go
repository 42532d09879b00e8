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
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)


// Parameters for RGB combination and enhancement, after registration
type ColorParams struct {
	RgbName    string  `yaml:"rgbName"    json:"rgbName"`     // PNG file for the color composite
	Gamma      float32 `yaml:"gamma"      json:"gamma"`       // Applied to the jointly normalized channels
	ChromaBy   float32 `yaml:"chromaBy"   json:"chromaBy"`    // Multiplies HCL chroma for hues in [ChromaFrom, ChromaTo]
	ChromaFrom float32 `yaml:"chromaFrom" json:"chromaFrom"`
	ChromaTo   float32 `yaml:"chromaTo"   json:"chromaTo"`
}

func NewColorParams() *ColorParams {
	return &ColorParams{RgbName:"rgb.png", Gamma:1, ChromaBy:1, ChromaFrom:0, ChromaTo:360}
}

// Print parameters for RGB combination
func (p *ColorParams) String() string {
	return fmt.Sprintf("rgb %s gamma %.2f chromaBy %.2f chromaFrom %.2f chromaTo %.2f",
					   p.RgbName, p.Gamma, p.ChromaBy, p.ChromaFrom, p.ChromaTo)
}


// A color composite with one stacked band per channel
type RGBImage struct {
	R, G, B *Band
}

// Splits an aligned cube into three consecutive band groups, which are taken as blue, green and red
// in order of increasing wavelength, and stacks each group weighted by the given exposures.
// Needs at least three bands. If the count is not divisible by three, later groups get the extra bands
func CombineRGB(cube Cube, exposures []float32, crop bool) (*RGBImage, error) {
	n:=len(cube)
	if n<3 { return nil, fmt.Errorf("need at least three bands for a color composite, got %d", n) }
	if len(exposures)!=n { return nil, fmt.Errorf("%w: %d bands, %d exposures", ErrWeightCount, n, len(exposures)) }

	channels:=make([]*Band, 3)
	for c:=0; c<3; c++ {
		from, to:=c*n/3, (c+1)*n/3
		b, err:=StackWeighted(cube[from:to], exposures[from:to], crop)
		if err!=nil { return nil, fmt.Errorf("channel %d: %w", c, err) }
		b.ID=c
		b.Stats=CalcBasicStats(b.Data)
		LogPrintf("Channel %d from bands %d..%d: %v\n", c, from, to-1, b.Stats)
		channels[c]=b
	}
	return &RGBImage{R:channels[2], G:channels[1], B:channels[0]}, nil
}

// Normalizes all channels jointly to [0,1] and applies gamma.
// Invalid samples become zero, negative values are clipped. Returns the normalized channels and a joint validity mask
func (rgb *RGBImage) normalize(gamma float32) (r, g, b []float32, valid []bool) {
	chans:=[][]float32{rgb.R.Data, rgb.G.Data, rgb.B.Data}
	max:=float32(0)
	for _, ch:=range chans {
		for _, v:=range ch {
			if v>max { max=v }
		}
	}
	out:=make([][]float32, 3)
	valid=make([]bool, len(rgb.R.Data))
	for i:=range valid { valid[i]=true }
	for c, ch:=range chans {
		out[c]=make([]float32, len(ch))
		for i, v:=range ch {
			if math.IsNaN(float64(v)) { valid[i]=false; continue }
			if v<=0 || max<=0 { continue }
			v/=max
			if gamma!=1 && gamma>0 { v=float32(math.Pow(float64(v), 1/float64(gamma))) }
			out[c][i]=v
		}
	}
	return out[0], out[1], out[2], valid
}

// Renders the composite as 8-bit RGBA. Chroma is adjusted in HCL space for the configured hue range.
// Samples invalid in any channel are fully transparent
func (rgb *RGBImage) ToNRGBA(p *ColorParams) *image.NRGBA {
	w, h:=int(rgb.R.Naxisn[0]), int(rgb.R.Naxisn[1])
	r, g, b, valid:=rgb.normalize(p.Gamma)
	img:=image.NewNRGBA(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			i:=x+y*w
			c:=colorful.LinearRgb(float64(r[i]), float64(g[i]), float64(b[i]))
			if p.ChromaBy!=1 { c=adjustChroma(c, p.ChromaBy, p.ChromaFrom, p.ChromaTo) }
			r8, g8, b8:=c.Clamped().RGB255()
			a:=uint8(0)
			if valid[i] { a=255 }
			img.SetNRGBA(x, y, color.NRGBA{r8, g8, b8, a})
		}
	}
	return img
}

// Multiplies the chroma of a color by the given factor if its hue lies in [from, to] degrees.
// A range with from>to wraps around 360
func adjustChroma(c colorful.Color, by, from, to float32) colorful.Color {
	h, ch, l:=c.Hcl()
	inRange:=false
	if from<=to {
		inRange=h>=float64(from) && h<=float64(to)
	} else {
		inRange=h>=float64(from) || h<=float64(to)
	}
	if !inRange { return c }
	return colorful.Hcl(h, ch*float64(by), l)
}

// Combines the aligned cube into a color composite and writes it as PNG
func PostProcessAndSaveRgbComposite(cube Cube, crop bool, p *ColorParams) (*RGBImage, error) {
	rgb, err:=CombineRGB(cube, cube.Exposures(), crop)
	if err!=nil { return nil, err }
	LogPrintf("Writing RGB composite with %s ...\n", p)
	if err:=WritePNG(rgb.ToNRGBA(p), p.RgbName); err!=nil { return nil, err }
	return rgb, nil
}
