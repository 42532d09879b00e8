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
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleFITSData(t *testing.T) {
	assert.Equal(t, []float32{32767, 32868}, scaleFITSData([]int16{-1, 100}, 32768, 1))
	assert.Equal(t, []float32{0, 127.5}, scaleFITSData([]uint8{0, 255}, 0, 0.5))

	got:=scaleFITSData([]float32{1.5, float32(math.NaN())}, 0, 1)
	assert.Equal(t, float32(1.5), got[0])
	assert.True(t, isNaN32(got[1]))
}

// Writes a 16-bit integer FITS image with the given axes and extra header cards
func writeFITS16(t *testing.T, path string, axes []int, data []int16, cards ...fitsio.Card) {
	t.Helper()
	w, err:=os.Create(path)
	require.NoError(t, err)
	defer w.Close()
	f, err:=fitsio.Create(w)
	require.NoError(t, err)
	defer f.Close()

	im:=fitsio.NewImage(16, axes)
	defer im.Close()
	require.NoError(t, im.Header().Append(cards...))
	require.NoError(t, im.Write(data))
	require.NoError(t, f.Write(im))
}

func TestLoadBandScaledIntegers(t *testing.T) {
	path:=filepath.Join(t.TempDir(), "int16.fits")
	writeFITS16(t, path, []int{3, 2}, []int16{-32768, -1, 0, 1, 100, 32767},
		fitsio.Card{Name:"BZERO",   Value:32768},
		fitsio.Card{Name:"BSCALE",  Value:0.5},
		fitsio.Card{Name:"EXPTIME", Value:30.0},
	)

	b, err:=LoadBand(2, path)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 2}, b.Naxisn)
	assert.Equal(t, float32(30), b.Exposure)
	assert.Equal(t, []float32{16384, 32767.5, 32768, 32768.5, 32818, 49151.5}, b.Data)
}

func TestLoadBandTakesFirstPlane(t *testing.T) {
	path:=filepath.Join(t.TempDir(), "cube.fits")
	writeFITS16(t, path, []int{2, 2, 2}, []int16{1, 2, 3, 4, 5, 6, 7, 8})

	b, err:=LoadBand(0, path)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 2}, b.Naxisn)
	assert.Equal(t, []float32{1, 2, 3, 4}, b.Data)
	assert.Zero(t, b.Exposure)
}

func TestFitsList(t *testing.T) {
	dir:=t.TempDir()
	for _, name:=range []string{"b.fits", "a.fit", "c.txt", "d.FTS"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	got, err:=FitsList(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.fit"), filepath.Join(dir, "b.fits"), filepath.Join(dir, "d.FTS")}, got)
}

func TestBandFileRoundTrip(t *testing.T) {
	b:=bandFromFunc(0, 5, 3, 12.5, pattern)
	b.Set(1, 1, float32(math.NaN()))
	path:=filepath.Join(t.TempDir(), "band.fits")
	require.NoError(t, b.WriteFile(path))

	loaded, err:=LoadBand(7, path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.ID)
	assert.Equal(t, path, loaded.FileName)
	assert.Equal(t, []int32{5, 3}, loaded.Naxisn)
	assert.Equal(t, float32(12.5), loaded.Exposure)
	for i, v:=range b.Data {
		if isNaN32(v) {
			assert.True(t, isNaN32(loaded.Data[i]))
		} else {
			assert.Equal(t, v, loaded.Data[i])
		}
	}
}

func TestLoadBandMissingFile(t *testing.T) {
	_, err:=LoadBand(0, filepath.Join(t.TempDir(), "nope.fits"))
	assert.Error(t, err)
}
