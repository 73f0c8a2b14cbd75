package mapper

import (
	"sync"
	"sync/atomic"

	"github.com/kartseq/kart/align"
	"github.com/kartseq/kart/profile"
)

// Aggregate is the shared, mutex-guarded state all pool workers fold their
// per-chunk results into, grounded on the LibraryLock/OutputLock/ProfileLock
// triple in ReadMapping.cpp's Mapping loop. Each lock protects an
// independent slice of state so readers, writers, and profile updaters
// make progress without contending on each other.
type Aggregate struct {
	// LibraryLock serializes ChunkSource.NextChunk calls.
	LibraryLock sync.Mutex

	// OutputLock guards the counters below and all OutputSink writes.
	OutputLock sync.Mutex
	TotalReadNum       int64
	TotalMappingNum    int64
	TotalPairedNum      int64
	TotalPairedDistance int64
	ReadLengthSum       int64

	// ProfileLock guards Profile and the two discordant-site sequences it
	// owns.
	ProfileLock sync.Mutex
	Profile     *profile.Profile

	// avgDist is read lock-free by workers as a pairing-window hint; it is
	// only ever written under OutputLock. A stale read only widens or
	// narrows the pairing window slightly and never affects correctness
	//.
	avgDist int64
}

// NewAggregate builds an Aggregate over prof, which may be nil if
// variant-signal collection is disabled.
func NewAggregate(prof *profile.Profile) *Aggregate {
	return &Aggregate{Profile: prof}
}

// AvgDist returns the live average paired distance estimate, safe to call
// without holding any lock.
func (a *Aggregate) AvgDist() int64 {
	return atomic.LoadInt64(&a.avgDist)
}

// RecordChunk folds one chunk's worth of per-worker totals into the shared
// counters and recomputes avgDist once enough pairs have been observed,
// mirroring the `if (iTotalPairedNum > 1000) avgDist = ...` recomputation
// in the original worker loop. Callers must hold OutputLock.
func (a *Aggregate) RecordChunk(readNum, mappedNum, pairedNum int, totalDistance, readLengthSum int64) {
	a.TotalReadNum += int64(readNum)
	a.TotalMappingNum += int64(mappedNum)
	a.TotalPairedNum += int64(pairedNum)
	a.TotalPairedDistance += totalDistance
	a.ReadLengthSum += readLengthSum
	if a.TotalPairedNum > 1000 {
		newAvg := (a.TotalPairedDistance + a.TotalPairedNum/2) / a.TotalPairedNum
		atomic.StoreInt64(&a.avgDist, newAvg)
	}
}

// RecordDiscordance merges a chunk's pre-sorted batch of discordant sites
// into the matching process-wide sequence. Callers must hold ProfileLock.
func (a *Aggregate) RecordDiscordance(kind align.DiscordantSiteKind, batch []align.DiscordantSite) {
	if a.Profile == nil || len(batch) == 0 {
		return
	}
	a.Profile.MergeDiscordantSites(kind, batch)
}
