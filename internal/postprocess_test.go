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
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	norm, valid:=Normalize([]float32{-1, 2, float32(nan()), 4})
	assert.Equal(t, []float32{0, 0.5, 0, 1}, norm)
	assert.Equal(t, []bool{true, true, false, true}, valid)

	norm, _=Normalize([]float32{-1, 0})
	assert.Equal(t, []float32{0, 0}, norm)
}

func TestToLA(t *testing.T) {
	img:=ToLA([]float32{0, 1, 0.5, 0}, []bool{true, true, true, false}, 2, 2)
	assert.Equal(t, uint8(0),   img.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(1, 0).G)
	assert.Equal(t, uint8(127), img.NRGBAAt(0, 1).B)
	assert.Equal(t, uint8(0),   img.NRGBAAt(1, 1).A)
}

func TestFalseColorEndpoints(t *testing.T) {
	assert.Equal(t, falseColorStops[0], falseColor(0))
	assert.Equal(t, falseColorStops[len(falseColorStops)-1], falseColor(1))
	img:=ToFalseColor([]float32{0, 1}, []bool{true, false}, 2, 1)
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0),   img.NRGBAAt(1, 0).A)
}

func TestScalePreview(t *testing.T) {
	img:=ToLA(make([]float32, 100*50), make([]bool, 100*50), 100, 50)
	small:=ScalePreview(img, 40)
	assert.Equal(t, 40, small.Bounds().Dx())
	assert.Equal(t, 20, small.Bounds().Dy())
	assert.Same(t, img, ScalePreview(img, 200))
}

func TestPostProcessAndSave(t *testing.T) {
	dir:=t.TempDir()
	b:=bandFromFunc(0, 30, 20, 1, pattern)
	b.Set(0, 0, float32(nan()))
	p:=&PostProcessParams{PngName:filepath.Join(dir, "out.png"), PreviewName:filepath.Join(dir, "preview.png"),
		PreviewWidth:15, FalseColor:true}
	require.NoError(t, PostProcessAndSave(b, p))

	f, err:=os.Open(p.PngName)
	require.NoError(t, err)
	defer f.Close()
	img, err:=png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	_, _, _, a:=img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)

	pf, err:=os.Open(p.PreviewName)
	require.NoError(t, err)
	defer pf.Close()
	preview, err:=png.Decode(pf)
	require.NoError(t, err)
	assert.Equal(t, 15, preview.Bounds().Dx())
	assert.Equal(t, 10, preview.Bounds().Dy())
}
