// Package align implements the per-read seeding-and-clustering pipeline,
// paired-end rescue and pairing, and discordant-pair classification that
// together form the mapping engine's core. It is deliberately independent
// of I/O, output formatting, and concurrency concerns, which live in
// sibling packages (ioreads, outsink, mapper).
package align

// NoneIdx is the sentinel value of AlnCan.PairedIdx meaning "unpaired".
const NoneIdx = -1

// Seed is a maximal exact match between a read substring and a reference
// substring (the "simple pair"). PosDiff is always > 0; seeds whose
// computed offset would be non-positive are discarded at creation by the
// Seed Finder.
type Seed struct {
	RPos    int   // offset into the read
	GPos    int64 // offset into the [0,2G) reference coordinate space
	Len     int   // match length, shared by read and reference
	PosDiff int64 // GPos - RPos, the implied alignment offset
	Simple  bool  // true for an exact match from the Seed Finder; false once refined downstream
}

// end returns the read-coordinate end of the seed, RPos+Len.
func (s Seed) end() int { return s.RPos + s.Len }

// sentinelSeed terminates a SeedList so single-pass sweeps need not check
// bounds at every step.
func sentinelSeed(twoGenomeSize int64) Seed {
	return Seed{PosDiff: twoGenomeSize, GPos: twoGenomeSize}
}

// SeedList is a SeedFinder's output for one read: seeds sorted ascending by
// (PosDiff, RPos), followed by a sentinel with PosDiff == TwoGenomeSize.
type SeedList []Seed

// AlnCan (alignment candidate) is a cluster of seeds sharing a near-
// identical PosDiff. Score is the sum of the member seeds' lengths and is
// set to zero by the deduplicator/masking steps to mark the candidate as
// suppressed without physically removing it.
type AlnCan struct {
	Seeds []Seed
	Score int
	// PairedIdx is a back-reference into the mate's candidate list: either
	// NoneIdx or a valid index into that list. The resolver maintains
	// symmetry: A.PairedIdx == j iff B[j].PairedIdx == i.
	PairedIdx int

	// HeadClip and TailClip are the portions, in read bases, of the read
	// span not covered by any member seed at the 5' and 3' ends
	// respectively. They are hints for the external alignment refiner and
	// do not feed back into any decision made in this package.
	HeadClip, TailClip int
}

// firstGPos returns the GPos of the candidate's first seed, the coordinate
// used throughout pairing and discordance classification to represent the
// candidate's location.
func (c AlnCan) firstGPos() int64 {
	return c.Seeds[0].GPos
}

// PosDiff returns the candidate's representative PosDiff: that of its
// first seed. A cluster's member seeds share a near-identical PosDiff band
// (member seeds share a common band), so the first seed's value stands for the
// whole candidate in pairing and discordance classification.
func (c AlnCan) PosDiff() int64 {
	return c.Seeds[0].PosDiff
}

// NewAlnCan builds a candidate from a contiguous run of seeds and computes
// its score and clip hints.
func NewAlnCan(seeds []Seed, rlen int) AlnCan {
	c := AlnCan{Seeds: seeds, PairedIdx: NoneIdx}
	for _, s := range seeds {
		c.Score += s.Len
	}
	if len(seeds) > 0 {
		c.HeadClip = seeds[0].RPos
		last := seeds[len(seeds)-1]
		c.TailClip = rlen - last.end()
		if c.TailClip < 0 {
			c.TailClip = 0
		}
	}
	return c
}

// AlnSummary carries the best and runner-up candidate scores for a read,
// plus the index of the best candidate, mirroring ReadItem_t.AlnSummary in
// the original aligner.
type AlnSummary struct {
	Score, SubScore int
	BestAlnCanIdx   int
}

// ReadRecord is the per-read scratch state threaded through the pipeline:
// raw fields from the read source, the candidate set produced by clustering
// and pairing, and the running summary used by the external refiner.
type ReadRecord struct {
	Header, Seq, Qual string
	RLen              int
	Candidates        []AlnCan
	Summary           AlnSummary
}

// LiveCandidates returns the count of candidates whose score has not been
// zeroed by deduplication or masking.
func (r *ReadRecord) LiveCandidates() int {
	n := 0
	for i := range r.Candidates {
		if r.Candidates[i].Score > 0 {
			n++
		}
	}
	return n
}

// MapQ estimates a coarse mapping-quality byte from the read's best vs.
// runner-up candidate scores. It is a convenience for the output sink and
// does not feed back into any core decision.
func (r *ReadRecord) MapQ() byte {
	if r.Summary.Score == 0 {
		return 0
	}
	if r.Summary.SubScore == 0 {
		return 60
	}
	gap := r.Summary.Score - r.Summary.SubScore
	if gap <= 0 {
		return 0
	}
	q := gap * 60 / r.Summary.Score
	if q > 60 {
		q = 60
	}
	return byte(q)
}

// CoordinatePair describes the relative positions of a mate pair. GPos ==
// -1 on either side encodes "no alignment on that mate".
type CoordinatePair struct {
	GPos1, GPos2 int64
	Dist         int64
}

// DiscordantSiteKind distinguishes the two process-wide discordant-site
// sequences the Discordance Classifier feeds.
type DiscordantSiteKind int

const (
	// InversionSite marks an entry bound for the InversionSites sequence.
	InversionSite DiscordantSiteKind = iota
	// TranslocationSite marks an entry bound for the TranslocationSites sequence.
	TranslocationSite
)

// DiscordantSite is one reported breakpoint, sorted by GPos within its
// process-wide sequence.
type DiscordantSite struct {
	GPos int64
	Dist int64
}

// ByGPos sorts a slice of DiscordantSite ascending by GPos, matching
// CompByDiscordPos in the original aligner.
type ByGPos []DiscordantSite

func (s ByGPos) Len() int           { return len(s) }
func (s ByGPos) Less(i, j int) bool { return s[i].GPos < s[j].GPos }
func (s ByGPos) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
