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
	"runtime"
	"runtime/debug"
)


// Parameters for the stack command
type StackParams struct {
	OutName        string `yaml:"outName"        json:"outName"`         // FITS file for the reduced image
	ShiftsFile     string `yaml:"shiftsFile"     json:"shiftsFile"`      // YAML list of pairwise shifts. Measured by phase correlation if empty
	SaveShiftsFile string `yaml:"saveShiftsFile" json:"saveShiftsFile"`  // Where to save measured shifts, if not empty
	AlignedPattern string `yaml:"alignedPattern" json:"alignedPattern"`  // Printf pattern for saving aligned bands, if not empty
}

func NewStackParams() *StackParams {
	return &StackParams{OutName:"out.fits"}
}

// Print parameters for stacking
func (p *StackParams) String() string {
	return fmt.Sprintf("out %s shifts %q saveShifts %q aligned %q", p.OutName, p.ShiftsFile, p.SaveShiftsFile, p.AlignedPattern)
}


// Registers and stacks the given band files into one reduced image
func CmdStack(fileNames []string, preP *PreProcessParams, regP *RegisterParams, postP *PostProcessParams, stackP *StackParams) error {
	if len(fileNames)==0 { return ErrEmptyCube }

	cube, err:=loadCube(fileNames, preP)
	if err!=nil { return err }

	pairwise, err:=pairwiseShifts(cube, stackP)
	if err!=nil { return err }

	LogPrintf("\nRegistering and stacking %d bands with %s:\n", len(cube), regP)
	reduced, aligned, err:=Reduce(cube, pairwise, regP)
	if err!=nil { return err }
	cube=nil
	debug.FreeOSMemory()

	if stackP.AlignedPattern!="" {
		for i, b:=range aligned {
			name:=fmt.Sprintf(stackP.AlignedPattern, i)
			LogPrintf("%d: Writing aligned band to %s\n", b.ID, name)
			if err:=b.WriteFile(name); err!=nil { return fmt.Errorf("error writing file: %w", err) }
		}
	}

	LogPrintf("Writing FITS to %s ...\n", stackP.OutName)
	if err:=reduced.WriteFile(stackP.OutName); err!=nil { return fmt.Errorf("error writing file: %w", err) }
	return PostProcessAndSave(reduced, postP)
}

// Loads and preprocesses the given files as a cube, in order
func loadCube(fileNames []string, preP *PreProcessParams) (Cube, error) {
	ids:=make([]int, len(fileNames))
	for i:=range ids { ids[i]=i }

	imageLevelParallelism:=runtime.GOMAXPROCS(0)
	if imageLevelParallelism>len(fileNames) { imageLevelParallelism=len(fileNames) }
	LogPrintf("\nPreprocessing %d bands with %s:\n", len(fileNames), preP)
	cube, err:=PreProcessBands(ids, fileNames, preP, imageLevelParallelism)
	debug.FreeOSMemory()
	return cube, err
}

// Loads pairwise shifts from file if configured, else measures them by phase correlation
func pairwiseShifts(cube Cube, stackP *StackParams) ([]ShiftVector, error) {
	if stackP.ShiftsFile!="" {
		LogPrintf("Loading pairwise shifts from %s\n", stackP.ShiftsFile)
		return LoadShifts(stackP.ShiftsFile)
	}

	LogPrintf("\nMeasuring pairwise shifts of %d bands by phase correlation:\n", len(cube))
	shifts, err:=MeasurePairwiseShifts(cube, PhaseCorrelation{})
	if err!=nil { return nil, err }
	if stackP.SaveShiftsFile!="" {
		LogPrintf("Saving pairwise shifts to %s\n", stackP.SaveShiftsFile)
		if err:=SaveShifts(shifts, stackP.SaveShiftsFile); err!=nil { return nil, err }
	}
	return shifts, nil
}
