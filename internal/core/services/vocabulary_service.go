package services

import (
	"sort"
	"strings"
)

// VocabularyService is a bidirectional dictionary between accounting
// vocabulary and the time service's vocabulary. Lookups never fail:
// unknown terms pass through unchanged.
type VocabularyService struct {
	toService    map[string]string
	toAccounting map[string]string
}

// toServiceTerms maps accounting terms to service terms. The mapping is
// many-to-one for several entries (project and client both resolve to
// jobcode), so the reverse direction is lossy.
var toServiceTerms = map[string]string{
	"employee":      "user",
	"staff":         "user",
	"worker":        "user",
	"department":    "group",
	"team":          "group",
	"project":       "jobcode",
	"client":        "jobcode",
	"task":          "jobcode",
	"job":           "jobcode",
	"vacation":      "pto",
	"sick time":     "pto",
	"sick leave":    "pto",
	"paid time off": "pto",
	"holiday":       "pto",
	"regular hours": "regular",
	"standard time": "regular",
	"break":         "paid_break",
	"lunch":         "unpaid_break",
	"time card":     "timesheet",
	"punch card":    "timesheet",
	"time entry":    "timesheet",
	"punch":         "timesheet",
	"clock in":      "timesheet",
	"hours worked":  "timesheet",
}

// toAccountingTerms is the reverse table, fixed to one canonical
// accounting term per service term. Reversing jobcode is context-free
// by contract: callers needing project/client disambiguation must carry
// the original accounting term alongside the resolved id.
var toAccountingTerms = map[string]string{
	"user":         "employee",
	"group":        "department",
	"jobcode":      "jobcode",
	"pto":          "vacation",
	"regular":      "regular hours",
	"paid_break":   "break",
	"unpaid_break": "lunch",
	"timesheet":    "time card",
}

// NewVocabularyService builds the fixed-table mapper.
func NewVocabularyService() *VocabularyService {
	return &VocabularyService{
		toService:    toServiceTerms,
		toAccounting: toAccountingTerms,
	}
}

// ToServiceTerm maps an accounting term to the service's term. Unknown
// terms are returned unchanged.
func (s *VocabularyService) ToServiceTerm(term string) string {
	if mapped, ok := s.toService[strings.ToLower(strings.TrimSpace(term))]; ok {
		return mapped
	}
	return term
}

// ToAccountingTerm maps a service term back to an accounting term.
// Unknown terms are returned unchanged.
func (s *VocabularyService) ToAccountingTerm(serviceTerm string) string {
	if mapped, ok := s.toAccounting[strings.ToLower(strings.TrimSpace(serviceTerm))]; ok {
		return mapped
	}
	return serviceTerm
}

// translateOrder lists the accounting terms longest first so "paid
// time off" wins over shorter phrases; equal lengths break
// alphabetically so the scan order is fixed.
var translateOrder = func() []string {
	terms := make([]string, 0, len(toServiceTerms))
	for term := range toServiceTerms {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return terms
}()

// TranslateTerms rewrites accounting phrases appearing inside free text
// (e.g. a type filter) into service vocabulary. The text is consumed
// left to right, one span at a time, so a substituted service term is
// never matched again by a later accounting term.
func (s *VocabularyService) TranslateTerms(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); {
		matched := false
		for _, term := range translateOrder {
			if strings.HasPrefix(lower[i:], term) {
				b.WriteString(s.toService[term])
				i += len(term)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(lower[i])
			i++
		}
	}
	return b.String()
}
