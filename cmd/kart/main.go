// kart maps FASTQ reads against a FASTA reference, emitting either a
// simple tab-separated text record or a real BAM file per read, and, when
// -profile-out or -profile-in is set, reports a per-base
// coverage/duplication/repeat-family profile once every input has been
// consumed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/kartseq/kart/align"
	"github.com/kartseq/kart/ioreads"
	"github.com/kartseq/kart/mapper"
	"github.com/kartseq/kart/outsink"
	"github.com/kartseq/kart/profile"
	"github.com/kartseq/kart/refgenome"
)

var (
	refPath = flag.String("ref", "", "Reference FASTA path (required)")
	r1Flag  = flag.String("r1", "", "Comma-separated list of FASTQ R1 (or single-end) paths (required)")
	r2Flag  = flag.String("r2", "", "Comma-separated list of FASTQ R2 paths; omit for single-end input")

	outPath = flag.String("out", "-", "Output path; '-' means stdout")
	format  = flag.String("format", "text", "Output format: 'text' or 'bam'")

	index = flag.String("index", "suffix", "Seed index: 'suffix' (suffixarray.Index) or 'hash' (fixed-length k-mer table)")

	profileOut = flag.String("profile-out", "", "Path to write a per-base profile snapshot to; empty disables profiling")
	profileIn  = flag.String("profile-in", "", "Path to restore a previously written profile snapshot from before this run")

	workers   = flag.Int("workers", 0, "Number of worker goroutines; 0 = runtime.NumCPU()")
	chunkSize = flag.Int("chunk-size", align.DefaultOpts.ReadChunkSize, "Reads a worker pulls per library-lock acquisition; both mates of a pair count")

	minSeedLength        = flag.Int("min-seed-length", align.DefaultOpts.MinSeedLength, "Shortest prefix the seed finder queries the index with")
	maxPosDiff           = flag.Int("max-pos-diff", align.DefaultOpts.MaxPosDiff, "Maximum allowed posDiff drift within a seed cluster")
	minInversionSize     = flag.Int("min-inversion-size", align.DefaultOpts.MinInversionSize, "Lower bound on an opposite-strand distance that qualifies as an inversion")
	maxInversionSize     = flag.Int("max-inversion-size", align.DefaultOpts.MaxInversionSize, "Upper bound on an opposite-strand distance that qualifies as an inversion")
	minTranslocationSize = flag.Int("min-translocation-size", align.DefaultOpts.MinTranslocationSize, "Minimum same-strand distance that qualifies as a translocation")
	maxPairedDistance    = flag.Int("max-paired-distance", align.DefaultOpts.MaxPairedDistance, "Initial pairing-window bound, used until a live estimate replaces it")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -ref ref.fa -r1 reads_1.fq[,...] [-r2 reads_2.fq[,...]] [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()
	ctx := vcontext.Background()

	if *refPath == "" || *r1Flag == "" {
		log.Fatal("both -ref and -r1 are required")
	}

	chroms := loadReference(ctx, *refPath)
	ref := refgenome.NewReference(chroms)
	coord := ref.Coordinate()

	var idx align.Index
	switch *index {
	case "hash":
		idx = refgenome.NewHashIndex(ref, *minSeedLength)
	case "suffix":
		idx = ref.Index()
	default:
		log.Fatalf("unknown -index %q; want 'suffix' or 'hash'", *index)
	}
	refiner := refgenome.NewNaiveRefiner(ref)

	var prof *profile.Profile
	if *profileOut != "" || *profileIn != "" {
		prof = profile.New(coord.GenomeSize())
		if *profileIn != "" {
			restoreProfile(ctx, prof, *profileIn)
		}
	}
	agg := mapper.NewAggregate(prof)

	sink, closeSink := openSink(ctx, chroms, coord)
	defer closeSink()

	opts := align.Opts{
		MinSeedLength:        *minSeedLength,
		MaxPosDiff:           *maxPosDiff,
		MinInversionSize:     *minInversionSize,
		MaxInversionSize:     *maxInversionSize,
		MinTranslocationSize: *minTranslocationSize,
		MaxPairedDistance:    *maxPairedDistance,
		ReadChunkSize:        *chunkSize,
	}
	nWorkers := *workers
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	pool := mapper.NewPool(opts, idx, coord, refiner, sink, agg, nWorkers)

	r1Paths := strings.Split(*r1Flag, ",")
	var r2Paths []string
	if *r2Flag != "" {
		r2Paths = strings.Split(*r2Flag, ",")
		if len(r2Paths) != len(r1Paths) {
			log.Fatalf("there must be the same number of -r1 and -r2 paths: %d vs %d", len(r1Paths), len(r2Paths))
		}
	}

	for i, r1 := range r1Paths {
		runOneInput(ctx, pool, r1, r2Paths, i)
	}

	if prof != nil {
		mapper.RunCoverageSweep(prof, &agg.ProfileLock, nWorkers)
		logProfileSummary(prof)
		if *profileOut != "" {
			snapshotProfile(ctx, prof, *profileOut)
		}
	}
	log.Printf("kart: total reads %d, mapped %d, paired %d", agg.TotalReadNum, agg.TotalMappingNum, agg.TotalPairedNum)
}

// loadReference reads every record of the FASTA at path into
// refgenome.Chromosome form.
func loadReference(ctx context.Context, path string) []refgenome.Chromosome {
	recs, err := ioreads.OpenFASTA(ctx, path)
	if err != nil {
		log.Fatalf("reading reference %s: %v", path, err)
	}
	chroms := make([]refgenome.Chromosome, len(recs))
	for i, r := range recs {
		chroms[i] = refgenome.Chromosome{Name: firstField(r.Name), Seq: r.Seq}
	}
	log.Printf("kart: loaded %d chromosomes from %s", len(chroms), path)
	return chroms
}

// firstField returns the whitespace-delimited first token of a FASTA
// header, the same ">chr1 description" -> "chr1" convention most FASTA
// consumers apply.
func firstField(header string) string {
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i]
	}
	return header
}

func runOneInput(ctx context.Context, pool *mapper.Pool, r1 string, r2Paths []string, i int) {
	var (
		source mapper.ChunkSource
		closer func(context.Context) error
		err    error
	)
	if r2Paths != nil {
		var cr *ioreads.ChunkReader
		cr, err = ioreads.OpenPairedEndChunkReader(ctx, r1, r2Paths[i])
		source, closer = cr, chunkReaderCloser(cr)
	} else {
		var cr *ioreads.ChunkReader
		cr, err = ioreads.OpenSingleEndChunkReader(ctx, r1)
		source, closer = cr, chunkReaderCloser(cr)
	}
	if err != nil {
		log.Error.Printf("kart: skipping input %d (%s): %v", i, r1, err)
		return
	}
	if runErr := pool.Run(ctx, source); runErr != nil {
		log.Fatalf("mapping input %d (%s): %v", i, r1, runErr)
	}
	if closeErr := closer(ctx); closeErr != nil {
		log.Fatalf("closing input %d (%s): %v", i, r1, closeErr)
	}
}

func chunkReaderCloser(cr *ioreads.ChunkReader) func(context.Context) error {
	return func(ctx context.Context) error { return cr.Close(ctx) }
}

// openSink builds the configured OutputSink over -out, returning a cleanup
// function the caller must defer.
func openSink(ctx context.Context, chroms []refgenome.Chromosome, coord *refgenome.Coordinate) (mapper.OutputSink, func()) {
	var w io.Writer = os.Stdout
	var f file.File
	if *outPath != "-" {
		var err error
		f, err = file.Create(ctx, *outPath)
		if err != nil {
			log.Fatalf("creating output %s: %v", *outPath, err)
		}
		w = f.Writer(ctx)
	}

	switch *format {
	case "text":
		sink := outsink.NewTextWriter(w, coord)
		return sink, func() { closeFile(ctx, f) }
	case "bam":
		names := make([]string, len(chroms))
		lengths := make([]int, len(chroms))
		for i, c := range chroms {
			names[i] = c.Name
			lengths[i] = len(c.Seq)
		}
		bw, err := outsink.NewBAMWriter(w, coord, names, lengths, runtime.NumCPU())
		if err != nil {
			log.Fatalf("opening BAM output %s: %v", *outPath, err)
		}
		return bw, func() {
			once := errors.Once{}
			once.Set(bw.Close())
			closeFile(ctx, f)
			if err := once.Err(); err != nil {
				log.Fatalf("closing BAM output %s: %v", *outPath, err)
			}
		}
	default:
		log.Fatalf("unknown -format %q; want 'text' or 'bam'", *format)
		return nil, func() {}
	}
}

func closeFile(ctx context.Context, f file.File) {
	if f == nil {
		return
	}
	if err := f.Close(ctx); err != nil {
		log.Error.Printf("kart: closing output: %v", err)
	}
}

func restoreProfile(ctx context.Context, prof *profile.Profile, path string) {
	f, err := file.Open(ctx, path)
	if err != nil {
		log.Fatalf("opening profile snapshot %s: %v", path, err)
	}
	if err := prof.Restore(f.Reader(ctx)); err != nil {
		log.Fatalf("restoring profile snapshot %s: %v", path, err)
	}
	if err := f.Close(ctx); err != nil {
		log.Fatalf("closing profile snapshot %s: %v", path, err)
	}
	log.Printf("kart: restored profile snapshot from %s", path)
}

func snapshotProfile(ctx context.Context, prof *profile.Profile, path string) {
	f, err := file.Create(ctx, path)
	if err != nil {
		log.Fatalf("creating profile snapshot %s: %v", path, err)
	}
	once := errors.Once{}
	once.Set(prof.Snapshot(f.Writer(ctx)))
	once.Set(f.Close(ctx))
	if err := once.Err(); err != nil {
		log.Fatalf("writing profile snapshot %s: %v", path, err)
	}
	log.Printf("kart: wrote profile snapshot to %s", path)
}

func logProfileSummary(prof *profile.Profile) {
	duplicates, touched := prof.DuplicationReport()
	log.Printf("kart: profile genome size %d, aligned bases %d, average coverage %.2f, duplicate hits %d of %d touched positions, multi-hit reads %d, repeat families %d",
		prof.GenomeSize(), prof.AlignedBase(), prof.AverageCoverage(), duplicates, touched, prof.MultiHitReads(), prof.RepeatFamilyCount())
}
