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
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)


// Number of workers to run in parallel, if each holds the given number of bytes.
// Limited by the logical cores available, and by half of the physical memory
func MaxParallelism(bytesPerWorker int64) int {
	workers:=cpuid.CPU.LogicalCores
	if workers<=0 { workers=runtime.NumCPU() }
	if g:=runtime.GOMAXPROCS(0); g<workers { workers=g }

	if total:=int64(memory.TotalMemory()); total>0 && bytesPerWorker>0 {
		byMemory:=int(total/2/bytesPerWorker)
		if byMemory<workers { workers=byMemory }
	}
	if workers<1 { workers=1 }
	return workers
}

// Logs the CPU and memory the process runs on
func LogSystemInfo() {
	LogPrintf("CPU %s with %d physical and %d logical cores, AVX2 %v, memory %d MB\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, cpuid.CPU.AVX2(),
		memory.TotalMemory()/(1024*1024))
}
