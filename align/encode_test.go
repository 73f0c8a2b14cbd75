package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeRead(t *testing.T) {
	assert.Equal(t, []byte{BaseA, BaseC, BaseG, BaseT, BaseOther}, EncodeRead("ACGTN"))
	assert.Equal(t, []byte{BaseA, BaseC, BaseG, BaseT}, EncodeRead("acgt"))
}

func TestDecodeReadRoundTrip(t *testing.T) {
	assert.Equal(t, "ACGTN", DecodeRead(EncodeRead("ACGTN")))
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "ACGT", ReverseComplement("ACGT"))
	assert.Equal(t, "NCGT", ReverseComplement("ACGN"))
	assert.Equal(t, "TTTTCCCC", ReverseComplement("GGGGAAAA"))
}
