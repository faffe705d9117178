package qbtime

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// userJSON is the wire shape of a user record.
type userJSON struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Active         bool    `json:"active"`
	GroupID        int64   `json:"group_id"`
	EmployeeNumber int64   `json:"employee_number"`
	PayrollID      string  `json:"payroll_id"`
	PayRate        float64 `json:"pay_rate"`
	HireDate       string  `json:"hire_date"`
}

func (u userJSON) toDomain() domain.User {
	user := domain.User{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Active:         u.Active,
		GroupID:        u.GroupID,
		EmployeeNumber: u.EmployeeNumber,
		PayrollID:      u.PayrollID,
		HireDate:       u.HireDate,
	}
	if u.PayRate > 0 {
		rate := decimal.NewFromFloat(u.PayRate)
		user.HourlyRate = &rate
	}
	return user
}

// Users returns a lazy pager over the users collection.
func (c *Client) Users(f domain.UserFilter) *Pager[domain.User] {
	return newPager(func(ctx context.Context, page int) ([]domain.User, bool, error) {
		q := url.Values{}
		setIfIDs(q, "ids", f.IDs)
		setIfString(q, "first_name", f.Name)
		setIfString(q, "active", f.Active)
		setIfString(q, "modified_before", f.ModifiedBefore)
		setIfString(q, "modified_since", f.ModifiedSince)
		setPagination(q, page, f.Limit)

		env, err := c.get(ctx, "/users", q)
		if err != nil {
			return nil, false, err
		}
		wire, err := decodeCollection[userJSON](env, "users")
		if err != nil {
			return nil, false, err
		}
		users := make([]domain.User, len(wire))
		for i, w := range wire {
			users[i] = w.toDomain()
		}
		return users, env.More, nil
	})
}

// ListUsers drains every page matching the filter. A filter naming an
// explicit page returns that single page instead.
func (c *Client) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	pager := c.Users(f)
	if f.Page > 0 {
		pager.Seek(f.Page)
		return pager.Next(ctx)
	}
	return pager.All(ctx)
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	users, err := c.ListUsers(ctx, domain.UserFilter{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// CurrentUser fetches the user the access token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	env, err := c.get(ctx, "/current_user", url.Values{})
	if err != nil {
		return nil, err
	}
	wire, err := decodeCollection[userJSON](env, "users")
	if err != nil {
		return nil, err
	}
	if len(wire) == 0 {
		return nil, nil
	}
	user := wire[0].toDomain()
	return &user, nil
}

// ListGroups drains every page of the groups collection, or the single
// page the filter names.
func (c *Client) ListGroups(ctx context.Context, f domain.GroupFilter) ([]domain.Group, error) {
	pager := c.Groups(f)
	if f.Page > 0 {
		pager.Seek(f.Page)
		return pager.Next(ctx)
	}
	return pager.All(ctx)
}

// Groups returns a lazy pager over the groups collection.
func (c *Client) Groups(f domain.GroupFilter) *Pager[domain.Group] {
	return newPager(func(ctx context.Context, page int) ([]domain.Group, bool, error) {
		q := url.Values{}
		setIfIDs(q, "ids", f.IDs)
		setIfString(q, "active", f.Active)
		if f.Name != "" {
			q.Set("names", f.Name)
		}
		setPagination(q, page, f.Limit)

		env, err := c.get(ctx, "/groups", q)
		if err != nil {
			return nil, false, err
		}
		groups, err := decodeCollection[domain.Group](env, "groups")
		if err != nil {
			return nil, false, err
		}
		return groups, env.More, nil
	})
}

// GetGroup fetches a single group by id.
func (c *Client) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	groups, err := c.ListGroups(ctx, domain.GroupFilter{IDs: []int64{id}})
	if err != nil {
		return nil, fmt.Errorf("fetching group %s: %w", strconv.FormatInt(id, 10), err)
	}
	if len(groups) == 0 {
		return nil, nil
	}
	return &groups[0], nil
}
