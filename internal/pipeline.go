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


// Registers the bands of a cube with the given pairwise shifts, and stacks the aligned cube
// weighted by band exposures. Returns the reduced band and the aligned, trimmed cube
func Reduce(cube Cube, pairwise []ShiftVector, p *RegisterParams) (reduced *Band, aligned Cube, err error) {
	aligned, err=Register(cube, pairwise, p)
	if err!=nil { return nil, nil, fmt.Errorf("registering: %w", err) }

	reduced, err=StackWeighted(aligned, aligned.Exposures(), p.Crop)
	if err!=nil { return nil, nil, fmt.Errorf("stacking: %w", err) }

	reduced.Stats=CalcBasicStats(reduced.Data)
	LogPrintf("Reduced %d bands to %dx%d, exposure %gs, %v\n", len(aligned), reduced.Naxisn[0], reduced.Naxisn[1], reduced.Exposure, reduced.Stats)
	return reduced, aligned, nil
}
