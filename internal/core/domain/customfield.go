package domain

// Custom field vocabulary shared with the upstream service.
const (
	CustomFieldAppliesTimesheet = "timesheet"
	CustomFieldAppliesUser      = "user"
	CustomFieldAppliesJobcode   = "jobcode"

	CustomFieldManagedList = "managed-list"
	CustomFieldFreeForm    = "free-form"
)

// CustomField is a company-defined field attached to timesheets, users
// or jobcodes. Timesheet entries carry the chosen values in their
// CustomFields map, keyed by the field id.
type CustomField struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
	Active    bool   `json:"active"`
	AppliesTo string `json:"applies_to"` // timesheet|user|jobcode
	ValueType string `json:"value_type"` // managed-list|free-form
	Required  bool   `json:"required"`
}
