package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// User represents an employee in QuickBooks Time. Read-only reference
// data for the duration of a report.
type User struct {
	ID             int64            `json:"id"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	Active         bool             `json:"active"`
	GroupID        int64            `json:"group_id"`
	EmployeeNumber int64            `json:"employee_number,omitempty"`
	PayrollID      string           `json:"payroll_id,omitempty"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate,omitempty"` // nil when the service exposes no rate
	HireDate       string           `json:"hire_date,omitempty"`   // YYYY-MM-DD
}

// FullName returns the user's display name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Group partitions users; every user belongs to at most one group.
type Group struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Active     bool    `json:"active"`
	ManagerIDs []int64 `json:"manager_ids,omitempty"`
}
