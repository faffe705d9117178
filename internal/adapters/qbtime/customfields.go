package qbtime

import (
	"context"
	"net/url"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// CustomFields returns a lazy pager over the company's custom field
// definitions.
func (c *Client) CustomFields(f domain.CustomFieldFilter) *Pager[domain.CustomField] {
	return newPager(func(ctx context.Context, page int) ([]domain.CustomField, bool, error) {
		q := url.Values{}
		setIfIDs(q, "ids", f.IDs)
		setIfString(q, "active", f.Active)
		setIfString(q, "applies_to", f.AppliesTo)
		setIfString(q, "value_type", f.ValueType)
		setPagination(q, page, f.Limit)

		env, err := c.get(ctx, "/customfields", q)
		if err != nil {
			return nil, false, err
		}
		fields, err := decodeCollection[domain.CustomField](env, "customfields")
		if err != nil {
			return nil, false, err
		}
		return fields, env.More, nil
	})
}

// ListCustomFields drains every page matching the filter, or the single
// page the filter names.
func (c *Client) ListCustomFields(ctx context.Context, f domain.CustomFieldFilter) ([]domain.CustomField, error) {
	pager := c.CustomFields(f)
	if f.Page > 0 {
		pager.Seek(f.Page)
		return pager.Next(ctx)
	}
	return pager.All(ctx)
}
