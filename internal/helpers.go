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
	"os"
	"path/filepath"
)


// Expands the given arguments into file names. Directories contribute their FITS files,
// other arguments are taken as glob patterns. Order of arguments is preserved
func GlobFilenameWildcards(args []string) ([]string, error) {
	fileNames:=[]string{}
	for _, pattern:=range args {
		if fi, err:=os.Stat(pattern); err==nil && fi.IsDir() {
			matches, err:=FitsList(pattern)
			if err!=nil { return nil, err }
			fileNames=append(fileNames, matches...)
			continue
		}
		matches, err:=filepath.Glob(pattern)
		if err!=nil { return nil, err }
		fileNames=append(fileNames, matches...)
	}
	return fileNames, nil
}
