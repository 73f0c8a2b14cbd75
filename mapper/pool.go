// Package mapper implements the chunk-driven worker pool that drives the
// align package's per-read pipeline end to end: pulling chunks from a
// ChunkSource, seeding/clustering/pairing each read, refining surviving
// candidates through an external Refiner, writing formatted records to an
// OutputSink, and folding per-chunk results into a shared Aggregate. It is
// grounded on cmd/bio-fusion/main.go's reqCh/resCh channel pool and on
// ReadMapping.cpp's Mapping() worker loop.
package mapper

import (
	"context"
	"sort"
	"sync"

	"github.com/grailbio/base/log"

	"github.com/kartseq/kart/align"
)

// Pool runs a fixed number of worker goroutines over a ChunkSource.
type Pool struct {
	Opts    align.Opts
	Index   align.Index
	Coord   align.Coordinate
	Refiner align.Refiner
	Sink    OutputSink
	Agg     *Aggregate

	Workers int
}

// NewPool builds a Pool with the given collaborators. workers <= 0 defaults
// to 1.
func NewPool(opts align.Opts, idx align.Index, coord align.Coordinate, refiner align.Refiner, sink OutputSink, agg *Aggregate, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{Opts: opts, Index: idx, Coord: coord, Refiner: refiner, Sink: sink, Agg: agg, Workers: workers}
}

// Run drives source to exhaustion across Workers goroutines and blocks
// until every worker has finished. It returns the first error any worker
// observed from ChunkSource or OutputSink, cancelling the shared context so
// siblings stop promptly.
func (p *Pool) Run(ctx context.Context, source ChunkSource) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		errOnce sync.Once
		firstErr error
	)
	setErr := func(err error) {
		if err == nil {
			return
		}
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	wg.Add(p.Workers)
	for w := 0; w < p.Workers; w++ {
		go func() {
			defer wg.Done()
			p.workerLoop(ctx, source, setErr)
		}()
	}
	wg.Wait()
	return firstErr
}

// workerLoop repeats: pull a chunk under LibraryLock, process it with
// thread-local scratch, flush results and counters under OutputLock, fold
// profile updates under ProfileLock.
func (p *Pool) workerLoop(ctx context.Context, source ChunkSource, setErr func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		p.Agg.LibraryLock.Lock()
		reads, paired, err := source.NextChunk(ctx, p.Opts.ReadChunkSize)
		p.Agg.LibraryLock.Unlock()
		if err != nil {
			setErr(err)
			return
		}
		if len(reads) == 0 {
			return
		}

		result := p.processChunk(ctx, reads, paired)

		p.Agg.OutputLock.Lock()
		p.Agg.RecordChunk(len(reads), result.mappedNum, result.pairedNum, result.totalDistance, result.readLengthSum)
		writeErr := p.Sink.WriteChunk(ctx, reads)
		p.Agg.OutputLock.Unlock()
		if writeErr != nil {
			setErr(writeErr)
			return
		}

		if p.Agg.Profile != nil {
			p.Agg.ProfileLock.Lock()
			for _, r := range result.uniqueHits {
				p.Agg.Profile.UpdateProfile(r.gPos, r.rlen)
			}
			for _, positions := range result.multiHits {
				p.Agg.Profile.UpdateMultiHitCount()
				p.Agg.Profile.RecordRepeatFamily(positions)
			}
			p.Agg.RecordDiscordance(align.InversionSite, result.inversionSites)
			p.Agg.RecordDiscordance(align.TranslocationSite, result.translocationSites)
			p.Agg.ProfileLock.Unlock()
		}
	}
}

// chunkResult carries one chunk's findings out of processChunk, to be
// folded into the shared Aggregate by the caller under the appropriate
// lock.
type chunkResult struct {
	mappedNum     int
	pairedNum     int
	totalDistance int64
	readLengthSum int64

	uniqueHits []profileHit
	multiHits  [][]int64

	inversionSites     []align.DiscordantSite
	translocationSites []align.DiscordantSite
}

type profileHit struct {
	gPos int64
	rlen int
}

// processChunk runs the per-read and, for paired chunks, per-pair pipeline
// over one chunk using only thread-local scratch.
func (p *Pool) processChunk(ctx context.Context, reads []align.ReadRecord, paired bool) chunkResult {
	var res chunkResult

	if paired && len(reads)%2 == 0 {
		for i := 0; i+1 < len(reads); i += 2 {
			mate1, mate2 := &reads[i], &reads[i+1]
			p.seedAndCluster(ctx, mate1, false)
			p.seedAndCluster(ctx, mate2, true)
			align.ResetPairedIdx(mate1.Candidates)
			align.ResetPairedIdx(mate2.Candidates)

			estiDistance := p.Opts.PairingWindow(p.Agg.AvgDist())
			align.ResolveMatePair(ctx, mate1, mate2, p.Refiner, estiDistance)

			mapped := 0
			if p.Refiner.ProduceReadAlignment(ctx, mate1) {
				mapped++
			}
			if p.Refiner.ProduceReadAlignment(ctx, mate2) {
				mapped++
			}
			res.mappedNum += mapped

			cp := align.GenCoordinatePair(mate1.Candidates, mate2.Candidates)
			if cp.Dist != 0 && cp.GPos1 >= 0 && cp.GPos2 >= 0 {
				kind, sites, concordant := align.ClassifyDiscordance(cp, p.Coord.GenomeSize(), p.Coord.TwoGenomeSize(), p.Opts)
				if concordant {
					res.pairedNum++
					res.totalDistance += cp.Dist
					res.readLengthSum += int64(mate1.RLen + mate2.RLen)
				} else if len(sites) > 0 {
					switch kind {
					case align.InversionSite:
						res.inversionSites = append(res.inversionSites, sites...)
					case align.TranslocationSite:
						res.translocationSites = append(res.translocationSites, sites...)
					}
				}
			}

			p.collectProfileHits(mate1, &res)
			p.collectProfileHits(mate2, &res)
		}
	} else {
		for i := range reads {
			rec := &reads[i]
			p.seedAndCluster(ctx, rec, false)
			align.Deduplicate(rec.Candidates)
			if p.Refiner.ProduceReadAlignment(ctx, rec) {
				res.mappedNum++
			}
			p.collectProfileHits(rec, &res)
		}
	}
	sort.Sort(align.ByGPos(res.inversionSites))
	sort.Sort(align.ByGPos(res.translocationSites))
	return res
}

// seedAndCluster runs the Seed Finder and Cluster Builder for one read,
// reverse-complementing first when revComp is true (the second mate of a
// pair step 2).
func (p *Pool) seedAndCluster(ctx context.Context, rec *align.ReadRecord, revComp bool) {
	seq := rec.Seq
	if revComp {
		seq = align.ReverseComplement(seq)
	}
	encoded := align.EncodeRead(seq)
	seeds, err := align.FindSeeds(ctx, p.Index, encoded, p.Opts, p.Coord.TwoGenomeSize())
	if err != nil {
		log.Error.Printf("mapper: seed finder failed for %q: %v", rec.Header, err)
		return
	}
	rec.Candidates = align.BuildClusters(seeds, rec.RLen, p.Coord, p.Opts)
}

// collectProfileHits records rec's variant-signal contribution: a unique
// hit (one live candidate) updates the per-base profile; more than one
// live candidate bumps the multi-hit counter and records the read's
// repeat family instead (step 6).
func (p *Pool) collectProfileHits(rec *align.ReadRecord, res *chunkResult) {
	if rec.Summary.Score == 0 {
		return
	}
	live := rec.LiveCandidates()
	if live == 0 {
		return
	}
	if live == 1 {
		for _, c := range rec.Candidates {
			if c.Score > 0 {
				_, off := p.Coord.DetermineCoordinate(c.Seeds[0].GPos)
				res.uniqueHits = append(res.uniqueHits, profileHit{gPos: off, rlen: rec.RLen})
				return
			}
		}
		return
	}
	positions := make([]int64, 0, live)
	for _, c := range rec.Candidates {
		if c.Score > 0 {
			positions = append(positions, c.Seeds[0].GPos)
		}
	}
	res.multiHits = append(res.multiHits, positions)
}
