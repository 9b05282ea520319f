package api

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// fetchAllConcurrency bounds the number of in-flight page fetches.
const fetchAllConcurrency = 4

// FetchAll retrieves every linked event for an entity. The first page is
// fetched alone to learn the total, then the remaining pages are fetched with
// bounded concurrency and assembled in offset order so the newest-first
// ordering of the backend is preserved.
func (c *Client) FetchAll(
	ctx context.Context,
	entityID string,
	pageSize int,
	filters Filters,
) ([]Event, error) {
	first, err := c.FetchPage(ctx, entityID, 0, pageSize, filters)
	if err != nil {
		return nil, err
	}
	if !first.HasMore {
		return first.Events, nil
	}

	total := first.Total
	events := make([]Event, total)
	copy(events, first.Events)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchAllConcurrency)

	for offset := pageSize; offset < total; offset += pageSize {
		g.Go(func() error {
			page, fetchErr := c.FetchPage(gctx, entityID, offset, pageSize, filters)
			if fetchErr != nil {
				return fetchErr
			}
			copy(events[offset:], page.Events)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching all pages: %w", err)
	}

	// A concurrent shrink can leave the tail unpopulated; trim zero-valued
	// entries so callers never see phantom events.
	trimmed := events[:0]
	for _, ev := range events {
		if ev.ID != "" {
			trimmed = append(trimmed, ev)
		}
	}
	return trimmed, nil
}
