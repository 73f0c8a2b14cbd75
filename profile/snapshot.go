package profile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// Snapshot writes the per-base touch-count array to w, snappy-compressed,
// so a long-running mapping job can checkpoint its profile and resume
// after a restart without re-scanning already-processed libraries.
// Grounded on diskMateShard's snappy.NewBufferedWriter usage in
// encoding/bampair/disk_mate_shard.go.
func (p *Profile) Snapshot(w io.Writer) error {
	sw := snappy.NewBufferedWriter(w)
	if err := binary.Write(sw, binary.LittleEndian, int64(len(p.touchCount))); err != nil {
		return fmt.Errorf("profile: writing snapshot length: %v", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, p.touchCount); err != nil {
		return fmt.Errorf("profile: writing snapshot body: %v", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, p.multiHitReads); err != nil {
		return fmt.Errorf("profile: writing multi-hit count: %v", err)
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("profile: closing snappy writer: %v", err)
	}
	return nil
}

// Restore replaces p's per-base state with a snapshot previously written by
// Snapshot. InversionSites and TranslocationSites are not part of the
// snapshot; callers that need them across a restart persist those
// separately (they are small compared to the per-base array).
func (p *Profile) Restore(r io.Reader) error {
	sr := snappy.NewReader(r)
	var n int64
	if err := binary.Read(sr, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("profile: reading snapshot length: %v", err)
	}
	touchCount := make([]uint32, n)
	if err := binary.Read(sr, binary.LittleEndian, touchCount); err != nil {
		return fmt.Errorf("profile: reading snapshot body: %v", err)
	}
	var multiHit uint64
	if err := binary.Read(sr, binary.LittleEndian, &multiHit); err != nil {
		return fmt.Errorf("profile: reading multi-hit count: %v", err)
	}
	p.touchCount = touchCount
	p.multiHitReads = multiHit
	p.alignedBase = 0
	p.coverageSum = 0
	return nil
}
