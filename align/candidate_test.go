package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicateKeepsOnlyMaxScore(t *testing.T) {
	// Three overlapping candidates scoring 80, 80, 40 -> third zeroed.
	cans := []AlnCan{{Score: 80}, {Score: 80}, {Score: 40}}
	Deduplicate(cans)
	assert.Equal(t, 80, cans[0].Score)
	assert.Equal(t, 80, cans[1].Score)
	assert.Equal(t, 0, cans[2].Score)
}

func TestDeduplicateIdempotent(t *testing.T) {
	cans := []AlnCan{{Score: 80}, {Score: 80}, {Score: 40}}
	Deduplicate(cans)
	first := append([]AlnCan(nil), cans...)
	Deduplicate(cans)
	assert.Equal(t, first, cans)
}

func TestDeduplicateSingleCandidateUntouched(t *testing.T) {
	cans := []AlnCan{{Score: 5}}
	Deduplicate(cans)
	assert.Equal(t, 5, cans[0].Score)
}
