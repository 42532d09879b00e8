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
	"io"
	"os"
	"runtime"
	"sync"
)


// Parameters for the stats command
type StatsParams struct {
	Bins        int    `yaml:"bins"        json:"bins"`         // Number of histogram bins
	HistPattern string `yaml:"histPattern" json:"histPattern"`  // Printf pattern for histogram text files, if not empty
	SampleSize  int    `yaml:"sampleSize"  json:"sampleSize"`   // Samples for the quick median estimate
}

func NewStatsParams() *StatsParams {
	return &StatsParams{Bins:10, SampleSize:4096}
}


// Prints min, mean and max of each band, and optionally writes a histogram per band
func CmdStats(fileNames []string, p *PreProcessParams, sP *StatsParams) error {
	LogPrintf("\nPreprocessing %d bands with %s:\n", len(fileNames), p)

	errs:=make([]error, len(fileNames))
	sem :=make(chan bool, runtime.NumCPU())
	wg  :=sync.WaitGroup{}
	for id, fileName:=range fileNames {
		wg.Add(1)
		sem <- true
		go func(id int, fileName string) {
			defer func() { <-sem; wg.Done() }()
			b, err:=PreProcessBand(id, fileName, p)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				errs[id]=err
				return
			}
			LogPrintf("%d: quick median %.4g, %d invalid samples\n", id, QuickMedian(b.Data, sP.SampleSize), b.CountNaN())
			if sP.HistPattern!="" {
				errs[id]=writeHistogramFile(fmt.Sprintf(sP.HistPattern, id), b.Data, sP.Bins)
			}
		}(id, fileName)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func writeHistogramFile(fileName string, data []float32, bins int) error {
	f, err:=os.Create(fileName)
	if err!=nil { return err }
	if err:=WriteHistogram(f, data, bins); err!=nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Writes a text histogram of the valid samples, one "lower upper count" line per bin
func WriteHistogram(w io.Writer, data []float32, bins int) error {
	counts, dividers:=Histogram(data, bins)
	for i, c:=range counts {
		if _, err:=fmt.Fprintf(w, "%.6g\t%.6g\t%d\n", dividers[i], dividers[i+1], int64(c)); err!=nil { return err }
	}
	return nil
}
