package qbtime

import (
	"context"
	"net/url"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// Jobcodes returns a lazy pager over the jobcodes collection.
func (c *Client) Jobcodes(f domain.JobcodeFilter) *Pager[domain.Jobcode] {
	return newPager(func(ctx context.Context, page int) ([]domain.Jobcode, bool, error) {
		q := url.Values{}
		setIfIDs(q, "ids", f.IDs)
		setIfIDs(q, "parent_ids", f.ParentIDs)
		setIfString(q, "name", f.Name)
		setIfString(q, "type", string(f.Type))
		setIfString(q, "active", f.Active)
		setIfString(q, "modified_before", f.ModifiedBefore)
		setIfString(q, "modified_since", f.ModifiedSince)
		setPagination(q, page, f.Limit)

		env, err := c.get(ctx, "/jobcodes", q)
		if err != nil {
			return nil, false, err
		}
		jobcodes, err := decodeCollection[domain.Jobcode](env, "jobcodes")
		if err != nil {
			return nil, false, err
		}
		return jobcodes, env.More, nil
	})
}

// ListJobcodes drains every page matching the filter into an arena
// indexed by id, ready for hierarchy walks. A filter naming an explicit
// page loads only that page; subtree walks over such a partial arena
// see only the jobcodes the page carried.
func (c *Client) ListJobcodes(ctx context.Context, f domain.JobcodeFilter) (domain.JobcodeSet, error) {
	pager := c.Jobcodes(f)
	var jobcodes []domain.Jobcode
	var err error
	if f.Page > 0 {
		pager.Seek(f.Page)
		jobcodes, err = pager.Next(ctx)
	} else {
		jobcodes, err = pager.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	set := make(domain.JobcodeSet, len(jobcodes))
	for _, jc := range jobcodes {
		set[jc.ID] = jc
	}
	return set, nil
}

// GetJobcode fetches a single jobcode by id.
func (c *Client) GetJobcode(ctx context.Context, id int64) (*domain.Jobcode, error) {
	set, err := c.ListJobcodes(ctx, domain.JobcodeFilter{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	jc, ok := set[id]
	if !ok {
		return nil, nil
	}
	return &jc, nil
}
