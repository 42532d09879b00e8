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
	"errors"
	"fmt"
	"sync"
)


// Parameters for preprocessing bands before registration
type PreProcessParams struct {
	FlipY         bool      `yaml:"flipY"         json:"flipY"`
	EdgeLeft      int32     `yaml:"edgeLeft"      json:"edgeLeft"`
	EdgeRight     int32     `yaml:"edgeRight"     json:"edgeRight"`
	EdgeTop       int32     `yaml:"edgeTop"       json:"edgeTop"`
	EdgeBottom    int32     `yaml:"edgeBottom"    json:"edgeBottom"`
	BackGrid      int32     `yaml:"backGrid"      json:"backGrid"`
	BackSigma     float32   `yaml:"backSigma"     json:"backSigma"`
	Deconv        string    `yaml:"deconv"        json:"deconv"`
	DeconvWidth   int32     `yaml:"deconvWidth"   json:"deconvWidth"`
	DeconvBalance float64   `yaml:"deconvBalance" json:"deconvBalance"`
	PrePattern    string    `yaml:"prePattern"    json:"prePattern"`
}

func NewPreProcessParams() *PreProcessParams {
	return &PreProcessParams{
		FlipY:         true,
		BackGrid:      200,
		BackSigma:     3,
		DeconvWidth:   9,
		DeconvBalance: 0.1,
	}
}

// Print parameters for preprocessing bands
func (p *PreProcessParams) String() string {
	return fmt.Sprintf("flipY %v edges l%d r%d t%d b%d backGrid %d backSigma %.2f "+
		               "deconv %q deconvWidth %d deconvBalance %.3g prePattern %s",
					   p.FlipY, p.EdgeLeft, p.EdgeRight, p.EdgeTop, p.EdgeBottom, p.BackGrid, p.BackSigma,
					   p.Deconv, p.DeconvWidth, p.DeconvBalance, p.PrePattern)
}


// Preprocess all bands with given global settings, limiting concurrency to the given parallelism.
// Returns the bands in the order of the file names, or the first error encountered
func PreProcessBands(ids []int, fileNames []string, p *PreProcessParams, imageLevelParallelism int) (bands Cube, err error) {
	if len(fileNames)==0 { return nil, ErrEmptyCube }
	if imageLevelParallelism<1 { imageLevelParallelism=1 }

	bands =make(Cube, len(fileNames))
	errs :=make([]error, len(fileNames))
	sem  :=make(chan bool, imageLevelParallelism)
	wg   :=sync.WaitGroup{}
	for i, fileName:=range fileNames {
		wg.Add(1)
		sem <- true
		go func(i int, id int, fileName string) {
			defer func() { <-sem; wg.Done() }()
			b, err:=PreProcessBand(id, fileName, p)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				errs[i]=err
				return
			}
			bands[i]=b
			if p.PrePattern!="" {
				if err:=b.WriteFile(fmt.Sprintf(p.PrePattern, id)); err!=nil {
					errs[i]=fmt.Errorf("writing preprocessed band %d: %w", id, err)
				}
			}
		}(i, ids[i], fileName)
	}
	wg.Wait()

	if err:=errors.Join(errs...); err!=nil { return nil, err }
	return bands, nil
}

// Preprocess a single band with given settings.
// Pre-processing includes loading, orientation, edge cropping, background subtraction,
// optional deconvolution and basic statistics.
func PreProcessBand(id int, fileName string, p *PreProcessParams) (b *Band, err error) {
	b, err=LoadBand(id, fileName)
	if err!=nil { return nil, err }
	LogPrintf("%d: Loaded %s %dx%d exposure %gs\n", id, fileName, b.Naxisn[0], b.Naxisn[1], b.Exposure)
	return PreProcessLoadedBand(b, p)
}

// Preprocess a band which is already in memory. Returns a new band
func PreProcessLoadedBand(b *Band, p *PreProcessParams) (res *Band, err error) {
	res=b
	if p.FlipY { res=FlipVertical(res) }

	if p.EdgeLeft>0 || p.EdgeRight>0 || p.EdgeTop>0 || p.EdgeBottom>0 {
		res, err=CropEdges(res, p.EdgeLeft, p.EdgeRight, p.EdgeTop, p.EdgeBottom)
		if err!=nil { return nil, err }
	}

	if p.BackGrid>0 {
		tb:=NewTileBackground()
		if p.BackSigma>0 { tb.Sigma=p.BackSigma }
		res, err=SubtractBackground(res, tb, p.BackGrid)
		if err!=nil { return nil, err }
		LogPrintf("%d: Subtracted %s with grid %d\n", res.ID, tb, p.BackGrid)
	}

	if p.Deconv!="" {
		kernel, err:=KernelByName(p.Deconv, p.DeconvWidth)
		if err!=nil { return nil, err }
		data, err:=NewWienerDeconvolver(p.DeconvBalance).Deconvolve(res.Data, res.Naxisn[0], res.Naxisn[1], kernel, p.DeconvWidth)
		if err!=nil { return nil, err }
		if res==b { res=b.Clone() }
		res.Data=data
		LogPrintf("%d: Deconvolved with %s kernel of width %d\n", res.ID, p.Deconv, p.DeconvWidth)
	}

	if res==b { res=b.Clone() }
	res.Stats=CalcBasicStats(res.Data)
	LogPrintf("%d: %v\n", res.ID, res.Stats)
	return res, nil
}


// Returns a copy of the band with the vertical axis inverted. FITS rows run bottom-up
func FlipVertical(b *Band) *Band {
	res:=b.Clone()
	w, h:=int(b.Naxisn[0]), int(b.Naxisn[1])
	for y:=0; y<h; y++ {
		copy(res.Data[y*w:(y+1)*w], b.Data[(h-1-y)*w:(h-y)*w])
	}
	return res
}

// Returns a copy of the band with the given number of columns and rows removed from each edge
func CropEdges(b *Band, left, right, top, bottom int32) (*Band, error) {
	w, h:=b.Naxisn[0], b.Naxisn[1]
	if left<0 || right<0 || top<0 || bottom<0 || left+right>=w || top+bottom>=h {
		return nil, fmt.Errorf("%d: cannot crop l%d r%d t%d b%d from %dx%d", b.ID, left, right, top, bottom, w, h)
	}
	data:=extract(b.Data, w, left, top, w-right, h-bottom)
	res:=NewBandFromData(b.ID, w-left-right, h-top-bottom, data, b.Exposure)
	res.FileName=b.FileName
	return res, nil
}
