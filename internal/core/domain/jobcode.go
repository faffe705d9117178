package domain

// JobcodeType classifies how time booked against a jobcode is paid.
type JobcodeType string

const (
	JobcodeRegular     JobcodeType = "regular"
	JobcodePTO         JobcodeType = "pto"
	JobcodePaidBreak   JobcodeType = "paid_break"
	JobcodeUnpaidBreak JobcodeType = "unpaid_break"
)

// IsBreak reports whether the type is one of the break categories.
func (t JobcodeType) IsBreak() bool {
	return t == JobcodePaidBreak || t == JobcodeUnpaidBreak
}

// Jobcode is the service's generic billable/trackable unit: a project,
// client, task or non-billable category (PTO, breaks). Jobcodes form a
// tree via ParentID; 0 means top-level.
type Jobcode struct {
	ID          int64       `json:"id"`
	ParentID    int64       `json:"parent_id"`
	Name        string      `json:"name"`
	Type        JobcodeType `json:"type"`
	Active      bool        `json:"active"`
	Billable    bool        `json:"billable"`
	HasChildren bool        `json:"has_children"`
}

// JobcodeSet is an arena of jobcodes indexed by id. Hierarchy walks are
// repeated index lookups on the arena, never pointer chasing.
type JobcodeSet map[int64]Jobcode

// EffectiveType resolves the pay type of a jobcode through its ancestor
// chain: the type inherited from the hierarchy root applies unless a
// node closer to the leaf overrides it with a non-regular type. Callers
// filtering by type must use this, not the leaf's own type.
func (s JobcodeSet) EffectiveType(id int64) JobcodeType {
	// Bounded walk guards against malformed parent cycles in source data.
	for i := 0; i < len(s)+1; i++ {
		jc, ok := s[id]
		if !ok {
			return JobcodeRegular
		}
		if jc.Type != "" && jc.Type != JobcodeRegular {
			return jc.Type
		}
		if jc.ParentID == 0 {
			if jc.Type == "" {
				return JobcodeRegular
			}
			return jc.Type
		}
		id = jc.ParentID
	}
	return JobcodeRegular
}

// Roots returns the top-level jobcodes in the set.
func (s JobcodeSet) Roots() []Jobcode {
	var roots []Jobcode
	for _, jc := range s {
		if jc.ParentID == 0 {
			roots = append(roots, jc)
		}
	}
	return roots
}

// Children returns the direct children of the given jobcode id.
func (s JobcodeSet) Children(parentID int64) []Jobcode {
	var out []Jobcode
	for _, jc := range s {
		if jc.ParentID == parentID {
			out = append(out, jc)
		}
	}
	return out
}

// SubtreeIDs returns id plus every descendant id, so a client or
// project jobcode scopes the time booked anywhere under it.
func (s JobcodeSet) SubtreeIDs(id int64) []int64 {
	ids := []int64{id}
	for i := 0; i < len(ids); i++ {
		for _, child := range s.Children(ids[i]) {
			ids = append(ids, child.ID)
		}
	}
	return ids
}
