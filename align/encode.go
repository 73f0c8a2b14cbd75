package align

// Base codes: A=0, C=1, G=2, T=3, anything else >= 4.
const (
	BaseA byte = iota
	BaseC
	BaseG
	BaseT
	// BaseOther is the code for any ambiguous or non-ACGT base (e.g. N).
	BaseOther
)

// asciiToCodeTable maps every possible input byte to its base code. Built
// the way biosimd/biosimd_generic.go builds asciiToSeq8Table: a flat
// 256-entry lookup table driving a tight per-byte loop, rather than a
// switch. Unlike biosimd.ASCIITo2bit, ambiguous bases are not folded into
// 'A' -- they must stay distinguishable from it (rPos/gPos seeding must
// skip them, per IdentifySimplePairs).
var asciiToCodeTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = BaseOther
	}
	t['A'], t['a'] = BaseA, BaseA
	t['C'], t['c'] = BaseC, BaseC
	t['G'], t['g'] = BaseG, BaseG
	t['T'], t['t'] = BaseT, BaseT
	return t
}()

var codeToASCIITable = [5]byte{'A', 'C', 'G', 'T', 'N'}

// complementCodeTable maps a base code to its Watson-Crick complement.
// BaseOther complements to itself.
var complementCodeTable = [5]byte{BaseT, BaseG, BaseC, BaseA, BaseOther}

// EncodeRead converts an ASCII base sequence into the code alphabet used by
// the Seed Finder and Index collaborator.
func EncodeRead(seq string) []byte {
	enc := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		enc[i] = asciiToCodeTable[seq[i]]
	}
	return enc
}

// DecodeRead is the inverse of EncodeRead, used by tests and by the
// refiner stand-in to render a human-readable sequence.
func DecodeRead(enc []byte) string {
	out := make([]byte, len(enc))
	for i, c := range enc {
		if int(c) >= len(codeToASCIITable) {
			c = BaseOther
		}
		out[i] = codeToASCIITable[c]
	}
	return string(out)
}

// ReverseComplement reverse-complements an ASCII base sequence. It is
// applied to the second mate of a pair before seeding, so both mates are
// seeded against the same forward-strand reference orientation.
func ReverseComplement(seq string) string {
	out := make([]byte, len(seq))
	n := len(seq)
	for i := 0; i < n; i++ {
		c := asciiToCodeTable[seq[n-1-i]]
		out[i] = codeToASCIITable[complementCodeTable[c]]
	}
	return string(out)
}
