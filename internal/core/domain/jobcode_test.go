package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobcodeSet_EffectiveType(t *testing.T) {
	set := JobcodeSet{
		1: {ID: 1, ParentID: 0, Name: "Time Off", Type: JobcodePTO},
		2: {ID: 2, ParentID: 1, Name: "Vacation", Type: JobcodeRegular},
		3: {ID: 3, ParentID: 0, Name: "Client A", Type: JobcodeRegular},
		4: {ID: 4, ParentID: 3, Name: "Design", Type: JobcodeRegular},
		5: {ID: 5, ParentID: 3, Name: "Lunch", Type: JobcodeUnpaidBreak},
	}

	// Leaf inherits the PTO type from its hierarchy root.
	assert.Equal(t, JobcodePTO, set.EffectiveType(2))

	// Regular chain stays regular.
	assert.Equal(t, JobcodeRegular, set.EffectiveType(4))

	// A non-regular leaf overrides its regular ancestors.
	assert.Equal(t, JobcodeUnpaidBreak, set.EffectiveType(5))

	// Unknown ids resolve to regular.
	assert.Equal(t, JobcodeRegular, set.EffectiveType(999))
}

func TestJobcodeSet_EffectiveType_CycleGuard(t *testing.T) {
	set := JobcodeSet{
		1: {ID: 1, ParentID: 2, Type: JobcodeRegular},
		2: {ID: 2, ParentID: 1, Type: JobcodeRegular},
	}
	// Malformed parent cycles terminate instead of spinning.
	assert.Equal(t, JobcodeRegular, set.EffectiveType(1))
}

func TestJobcodeSet_Hierarchy(t *testing.T) {
	set := JobcodeSet{
		1: {ID: 1, ParentID: 0, Name: "Client A"},
		2: {ID: 2, ParentID: 1, Name: "Phase 1"},
		3: {ID: 3, ParentID: 1, Name: "Phase 2"},
	}
	assert.Len(t, set.Roots(), 1)
	assert.Len(t, set.Children(1), 2)
	assert.Empty(t, set.Children(2))
}

func TestTimesheet_DurationSeconds(t *testing.T) {
	ts := Timesheet{Duration: 3600}
	assert.Equal(t, int64(3600), ts.DurationSeconds())
}
