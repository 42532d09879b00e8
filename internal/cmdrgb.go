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
)


// Registers the given band files and combines them into a color composite.
// Bands are ordered by increasing wavelength and split into blue, green and red groups
func CmdRgb(fileNames []string, preP *PreProcessParams, regP *RegisterParams, stackP *StackParams, cP *ColorParams) error {
	if len(fileNames)<3 {
		return fmt.Errorf("need at least three input files to perform a RGB combination, got %d", len(fileNames))
	}

	cube, err:=loadCube(fileNames, preP)
	if err!=nil { return err }

	pairwise, err:=pairwiseShifts(cube, stackP)
	if err!=nil { return err }

	LogPrintf("\nRegistering %d bands with %s:\n", len(cube), regP)
	aligned, err:=Register(cube, pairwise, regP)
	if err!=nil { return err }

	LogPrintln("\nCombining color channels...")
	_, err=PostProcessAndSaveRgbComposite(aligned, regP.Crop, cP)
	return err
}
