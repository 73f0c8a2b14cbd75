package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordRepeatFamilyGroupsIdenticalPositionSets(t *testing.T) {
	p := New(1000)
	p.RecordRepeatFamily([]int64{100, 200})
	p.RecordRepeatFamily([]int64{100, 200})
	p.RecordRepeatFamily([]int64{300, 400})
	assert.Equal(t, 2, p.RepeatFamilyCount())
}

func TestRecordRepeatFamilyOrderSensitive(t *testing.T) {
	p := New(1000)
	p.RecordRepeatFamily([]int64{100, 200})
	p.RecordRepeatFamily([]int64{200, 100})
	assert.Equal(t, 2, p.RepeatFamilyCount())
}

func TestRepeatFamilyCountZeroWhenUntouched(t *testing.T) {
	p := New(1000)
	assert.Equal(t, 0, p.RepeatFamilyCount())
}
