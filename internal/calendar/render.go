package calendar

import (
	"context"
	"fmt"
)

// ExistenceFetcher returns ISO date -> note ID for every day note in a
// YYYY-MM month.
type ExistenceFetcher interface {
	NotesForMonth(ctx context.Context, month string) (map[string]string, error)
}

// RenderResult is a rendered grid tagged with the request it answers. On a
// fetch failure Grid has no notes marked and Err is set.
type RenderResult struct {
	Request RenderRequest
	Grid    Grid
	Err     error
}

// Render fetches the existence map for req.Month and builds its grid. A
// failed fetch still yields a usable grid.
func Render(ctx context.Context, fetcher ExistenceFetcher, req RenderRequest) RenderResult {
	existence, err := fetcher.NotesForMonth(ctx, req.Month.Key())
	if err != nil {
		return RenderResult{
			Request: req,
			Grid:    EmptyGrid(req.Month, req.Active, req.Today),
			Err:     fmt.Errorf("loading day notes for %s: %w", req.Month.Key(), err),
		}
	}
	return RenderResult{
		Request: req,
		Grid:    BuildGrid(req.Month, existence, req.Active, req.Today),
	}
}
