package qbtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// fetchPage requests one page (1-based) and reports whether more pages
// remain.
type fetchPage[T any] func(ctx context.Context, page int) ([]T, bool, error)

// Pager is a restartable lazy sequence over a paginated upstream
// collection. It issues one page request per Next call and terminates
// when the response carries no more-pages indicator, so callers can
// short-circuit without fetching every page.
type Pager[T any] struct {
	fetch fetchPage[T]
	page  int
	done  bool
}

func newPager[T any](fetch fetchPage[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch}
}

// Next returns the next page of records, or nil once the sequence is
// exhausted. Records are returned in service order; nothing is
// re-sorted across pages.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	if p.done {
		return nil, nil
	}
	p.page++
	items, more, err := p.fetch(ctx, p.page)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", p.page, err)
	}
	if !more {
		p.done = true
	}
	return items, nil
}

// Done reports whether the sequence is exhausted.
func (p *Pager[T]) Done() bool { return p.done }

// Reset rewinds the sequence to the first page.
func (p *Pager[T]) Reset() {
	p.page = 0
	p.done = false
}

// Seek positions the sequence so the next call to Next fetches the
// given 1-based page.
func (p *Pager[T]) Seek(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page - 1
	p.done = false
}

// All drains the remaining pages into one slice.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for !p.Done() {
		items, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// decodeCollection unpacks a keyed-by-id results object into a slice.
// The service keys collections by id, so within one page the order is
// made deterministic by ascending id.
func decodeCollection[T any](env *envelope, key string) ([]T, error) {
	raw, ok := env.Results[key]
	if !ok {
		return nil, nil
	}
	byID := map[string]T{}
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, fmt.Errorf("decoding %s results: %w", key, err)
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

// Query building helpers shared by the endpoint methods.

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func setIfIDs(q url.Values, key string, ids []int64) {
	if len(ids) > 0 {
		q.Set(key, joinIDs(ids))
	}
}

func setIfString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func setPagination(q url.Values, page, limit int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
}
