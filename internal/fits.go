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
	"os"
	"path/filepath"
	"sort"

	"github.com/astrogo/fitsio"
)

var fitsExtensions=[]string{"fts", "fit", "fits", "FTS", "FIT", "FITS"}

// Lists all FITS files in the given directory, sorted by name
func FitsList(dir string) ([]string, error) {
	fileNames:=[]string{}
	for _, ext:=range fitsExtensions {
		matches, err:=filepath.Glob(filepath.Join(dir, "*."+ext))
		if err!=nil { return nil, err }
		fileNames=append(fileNames, matches...)
	}
	sort.Strings(fileNames)
	// case-insensitive file systems match the same file once per spelling
	o:=0
	for i, f:=range fileNames {
		if i>0 && f==fileNames[o-1] { continue }
		fileNames[o]=f
		o++
	}
	return fileNames[:o], nil
}


// Loads the primary image of a FITS file as a band. For cubes, the first plane is used.
// The exposure is taken from the EXPTIME or EXPOSURE header keys, if present
func LoadBand(id int, fileName string) (b *Band, err error) {
	r, err:=os.Open(fileName)
	if err!=nil { return nil, err }
	defer r.Close()

	f, err:=fitsio.Open(r)
	if err!=nil { return nil, fmt.Errorf("%s: %w", fileName, err) }
	defer f.Close()

	img, ok:=f.HDU(0).(fitsio.Image)
	if !ok { return nil, fmt.Errorf("%s: primary HDU is not an image", fileName) }
	hdr:=img.Header()
	axes:=hdr.Axes()
	if len(axes)<2 { return nil, fmt.Errorf("%s: need at least 2 axes, got %v", fileName, axes) }
	width, height:=int32(axes[0]), int32(axes[1])

	bzero, bscale:=headerFloat(hdr, 0, "BZERO"), headerFloat(hdr, 1, "BSCALE")
	data, err:=readFITSData(img, int(width)*int(height), bzero, bscale)
	if err!=nil { return nil, fmt.Errorf("%s: %w", fileName, err) }

	b=NewBandFromData(id, width, height, data, float32(headerFloat(hdr, 0, "EXPTIME", "EXPOSURE")))
	b.FileName=fileName
	return b, nil
}

// Returns the first of the given header keys holding a number, or the default
func headerFloat(hdr *fitsio.Header, def float64, keys ...string) float64 {
	for _, k:=range keys {
		card:=hdr.Get(k)
		if card==nil { continue }
		switch v:=card.Value.(type) {
		case float64: return v
		case float32: return float64(v)
		case int:     return float64(v)
		case int64:   return float64(v)
		case int32:   return float64(v)
		}
	}
	return def
}

// Reads the image data with the element type matching its BITPIX, and returns the first plane
// of the given number of pixels as floats with bzero and bscale applied
func readFITSData(img fitsio.Image, pixels int, bzero, bscale float64) ([]float32, error) {
	elements:=1
	for _, n:=range img.Header().Axes() { elements*=n }
	if elements<pixels { return nil, fmt.Errorf("image has %d elements, need %d", elements, pixels) }

	switch bitpix:=img.Header().Bitpix(); bitpix {
	case 8:
		raw:=make([]byte, elements)
		if err:=img.Read(&raw); err!=nil { return nil, err }
		return scaleFITSData(raw[:pixels], bzero, bscale), nil
	case 16:
		raw:=make([]int16, elements)
		if err:=img.Read(&raw); err!=nil { return nil, err }
		return scaleFITSData(raw[:pixels], bzero, bscale), nil
	case 32:
		raw:=make([]int32, elements)
		if err:=img.Read(&raw); err!=nil { return nil, err }
		return scaleFITSData(raw[:pixels], bzero, bscale), nil
	case 64:
		raw:=make([]int64, elements)
		if err:=img.Read(&raw); err!=nil { return nil, err }
		return scaleFITSData(raw[:pixels], bzero, bscale), nil
	case -32:
		raw:=make([]float32, elements)
		if err:=img.Read(&raw); err!=nil { return nil, err }
		return scaleFITSData(raw[:pixels], bzero, bscale), nil
	case -64:
		raw:=make([]float64, elements)
		if err:=img.Read(&raw); err!=nil { return nil, err }
		return scaleFITSData(raw[:pixels], bzero, bscale), nil
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

// Converts raw FITS values to physical floats, bzero+bscale*v. NaNs stay NaN
func scaleFITSData[T uint8 | int16 | int32 | int64 | float32 | float64](raw []T, bzero, bscale float64) []float32 {
	data:=make([]float32, len(raw))
	for i, v:=range raw {
		data[i]=float32(bzero+bscale*float64(v))
	}
	return data
}

// Writes the band as a 32-bit float FITS image, with invalid samples stored as NaN
func (b *Band) WriteFile(fileName string) error {
	w, err:=os.Create(fileName)
	if err!=nil { return err }
	defer w.Close()

	f, err:=fitsio.Create(w)
	if err!=nil { return err }
	defer f.Close()

	im:=fitsio.NewImage(-32, []int{int(b.Naxisn[0]), int(b.Naxisn[1])})
	defer im.Close()
	err=im.Header().Append(
		fitsio.Card{Name:"EXPTIME", Value:float64(b.Exposure), Comment:"summed exposure weight"},
	)
	if err!=nil { return err }
	if err=im.Write(b.Data); err!=nil { return err }
	return f.Write(im)
}
