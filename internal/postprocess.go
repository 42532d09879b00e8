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
	"image/png"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)


// Parameters for exporting the reduced image
type PostProcessParams struct {
	PngName      string `yaml:"pngName"      json:"pngName"`       // 8-bit value and validity raster
	PreviewName  string `yaml:"previewName"  json:"previewName"`   // Scaled preview, if not empty
	PreviewWidth int    `yaml:"previewWidth" json:"previewWidth"`
	FalseColor   bool   `yaml:"falseColor"   json:"falseColor"`    // Render the preview with a color map instead of gray
}

func NewPostProcessParams() *PostProcessParams {
	return &PostProcessParams{PngName:"out.png", PreviewWidth:800}
}

// Print parameters for exporting
func (p *PostProcessParams) String() string {
	return fmt.Sprintf("png %s preview %s previewWidth %d falseColor %v", p.PngName, p.PreviewName, p.PreviewWidth, p.FalseColor)
}


// Write the PNG exports of a reduced band as configured
func PostProcessAndSave(b *Band, p *PostProcessParams) error {
	norm, valid:=Normalize(b.Data)
	w, h:=int(b.Naxisn[0]), int(b.Naxisn[1])

	if p.PngName!="" {
		LogPrintf("Writing PNG to %s ...\n", p.PngName)
		if err:=WritePNG(ToLA(norm, valid, w, h), p.PngName); err!=nil { return err }
	}
	if p.PreviewName!="" {
		var img image.Image
		if p.FalseColor {
			img=ToFalseColor(norm, valid, w, h)
		} else {
			img=ToLA(norm, valid, w, h)
		}
		LogPrintf("Writing %dpx preview to %s ...\n", p.PreviewWidth, p.PreviewName)
		if err:=WritePNG(ScalePreview(img, p.PreviewWidth), p.PreviewName); err!=nil { return err }
	}
	return nil
}

// Normalizes data for display: invalid samples become zero and are flagged in the validity mask,
// negative values are clipped, and the result is divided by the maximum
func Normalize(data []float32) (norm []float32, valid []bool) {
	norm =make([]float32, len(data))
	valid=make([]bool, len(data))
	max:=float32(0)
	for i, v:=range data {
		if math.IsNaN(float64(v)) { continue }
		valid[i]=true
		if v>0 { norm[i]=v }
		if norm[i]>max { max=norm[i] }
	}
	if max>0 {
		for i:=range norm { norm[i]/=max }
	}
	return norm, valid
}

// Encodes normalized data plus validity as an 8-bit gray image with alpha.
// Invalid samples are fully transparent
func ToLA(norm []float32, valid []bool, width, height int) *image.NRGBA {
	img:=image.NewNRGBA(image.Rect(0, 0, width, height))
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			i:=x+y*width
			g:=to8bit(norm[i])
			a:=uint8(0)
			if valid[i] { a=255 }
			img.SetNRGBA(x, y, color.NRGBA{g, g, g, a})
		}
	}
	return img
}

// Scales [0,1] to [0,255], truncating like a cast of the scaled float
func to8bit(v float32) uint8 {
	v*=255
	if v<0   { return 0 }
	if v>255 { return 255 }
	return uint8(v)
}

// Color map stops from black via purple and orange to pale yellow
var falseColorStops=mustParseHexColors("#000004", "#3b0f70", "#8c2981", "#de4968", "#fe9f6d", "#fcfdbf")

func mustParseHexColors(hexes ...string) []colorful.Color {
	cols:=make([]colorful.Color, len(hexes))
	for i, h:=range hexes {
		c, err:=colorful.Hex(h)
		if err!=nil { panic(err) }
		cols[i]=c
	}
	return cols
}

// Maps a normalized value onto the color map, blending between stops in HCL space
func falseColor(v float32) colorful.Color {
	if v<=0 { return falseColorStops[0] }
	if v>=1 { return falseColorStops[len(falseColorStops)-1] }
	pos:=float64(v)*float64(len(falseColorStops)-1)
	i:=int(pos)
	return falseColorStops[i].BlendHcl(falseColorStops[i+1], pos-float64(i)).Clamped()
}

// Renders normalized data with a color map. Invalid samples are fully transparent
func ToFalseColor(norm []float32, valid []bool, width, height int) *image.NRGBA {
	img:=image.NewNRGBA(image.Rect(0, 0, width, height))
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			i:=x+y*width
			r, g, b:=falseColor(norm[i]).RGB255()
			a:=uint8(0)
			if valid[i] { a=255 }
			img.SetNRGBA(x, y, color.NRGBA{r, g, b, a})
		}
	}
	return img
}

// Scales an image to the given width, preserving the aspect ratio. Images already narrower are returned as is
func ScalePreview(src image.Image, width int) image.Image {
	b:=src.Bounds()
	if width<=0 || b.Dx()<=width { return src }
	height:=b.Dy()*width/b.Dx()
	if height<1 { height=1 }
	dst:=image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Writes an image as PNG
func WritePNG(img image.Image, fileName string) error {
	f, err:=os.Create(fileName)
	if err!=nil { return err }
	if err:=png.Encode(f, img); err!=nil {
		f.Close()
		return err
	}
	return f.Close()
}
