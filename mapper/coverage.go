package mapper

import (
	"sync"

	"github.com/kartseq/kart/profile"
)

// RunCoverageSweep partitions the per-base profile across workers workers,
// each visiting positions tid, tid+workers, tid+2*workers, ... and folding
// its partial sums into prof under ProfileLock, grounded on
// CheckMappingCoverage's strided-thread partition in ReadMapping.cpp.
func RunCoverageSweep(prof *profile.Profile, profileLock *sync.Mutex, workers int) {
	if workers <= 0 {
		workers = 1
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for t := 0; t < workers; t++ {
		go func(tid int) {
			defer wg.Done()
			alignedBase, coverageSum := prof.CoverageSweep(tid, workers)
			profileLock.Lock()
			prof.MergeCoverage(alignedBase, coverageSum)
			profileLock.Unlock()
		}(t)
	}
	wg.Wait()
}
