// Package catalogsync imports the Marvel comics listing into the catalog.
package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/pkg/logger"
	"github.com/angelmondragon/comicstore/pkg/marvel"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// JobName identifies the sync in logs, metrics and the lock key.
const JobName = "catalog-sync"

const (
	defaultPageSize    = 100
	defaultConcurrency = 4
)

type comicLister interface {
	ListComics(ctx context.Context, offset, limit int) (*marvel.Page, error)
}

type comicUpserter interface {
	Upsert(ctx context.Context, comics []catalog.ComicInput) (int, error)
}

// JobParams configures the sync.
type JobParams struct {
	Logger       *logger.Logger
	Client       comicLister
	Catalog      comicUpserter
	PageSize     int
	MaxComics    int
	Concurrency  int
	DefaultStock int
}

// Job pulls up to MaxComics comics from Marvel and upserts them.
type Job struct {
	logg         *logger.Logger
	client       comicLister
	catalog      comicUpserter
	pageSize     int
	maxComics    int
	concurrency  int
	defaultStock int
}

// NewJob validates the params and builds the sync job.
func NewJob(params JobParams) (*Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Client == nil {
		return nil, errors.New("marvel client required")
	}
	if params.Catalog == nil {
		return nil, errors.New("catalog service required")
	}
	pageSize := params.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	stock := params.DefaultStock
	if stock < 0 {
		stock = 0
	}
	return &Job{
		logg:         params.Logger,
		client:       params.Client,
		catalog:      params.Catalog,
		pageSize:     pageSize,
		maxComics:    params.MaxComics,
		concurrency:  concurrency,
		defaultStock: stock,
	}, nil
}

func (j *Job) Name() string { return JobName }

// Run fetches the first page to learn the total, fans the remaining pages
// out over a bounded worker group, then upserts whatever was fetched. Failed
// pages do not stop the others; their errors are returned together after the
// successful pages are stored.
func (j *Job) Run(ctx context.Context) error {
	first, err := j.client.ListComics(ctx, 0, j.pageLimit(0))
	if err != nil {
		return fmt.Errorf("fetch first page: %w", err)
	}

	target := first.Total
	if j.maxComics > 0 && target > j.maxComics {
		target = j.maxComics
	}

	var (
		mu      sync.Mutex
		fetched = append([]marvel.Comic(nil), first.Comics...)
		pageErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	for offset := j.pageSize; offset < target; offset += j.pageSize {
		offset := offset
		limit := j.pageLimit(offset)
		if j.maxComics > 0 && offset+limit > target {
			limit = target - offset
		}
		g.Go(func() error {
			page, err := j.client.ListComics(gctx, offset, limit)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				pageErr = multierr.Append(pageErr, fmt.Errorf("fetch offset %d: %w", offset, err))
				return nil
			}
			fetched = append(fetched, page.Comics...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	inputs := j.toInputs(fetched, target)
	written, err := j.catalog.Upsert(ctx, inputs)
	if err != nil {
		return multierr.Append(pageErr, fmt.Errorf("upsert comics: %w", err))
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"total_remote": first.Total,
		"fetched":      len(fetched),
		"upserted":     written,
		"failed_pages": len(multierr.Errors(pageErr)),
	}), "catalog sync finished")
	return pageErr
}

func (j *Job) pageLimit(offset int) int {
	if j.maxComics > 0 && j.maxComics-offset < j.pageSize {
		if remaining := j.maxComics - offset; remaining > 0 {
			return remaining
		}
	}
	return j.pageSize
}

func (j *Job) toInputs(comics []marvel.Comic, target int) []catalog.ComicInput {
	sort.SliceStable(comics, func(a, b int) bool { return comics[a].MarvelID < comics[b].MarvelID })
	if j.maxComics > 0 && len(comics) > target {
		comics = comics[:target]
	}
	out := make([]catalog.ComicInput, 0, len(comics))
	for _, c := range comics {
		out = append(out, catalog.ComicInput{
			MarvelID:    c.MarvelID,
			Title:       c.Title,
			Description: c.Description,
			Price:       c.Price,
			Picture:     c.Picture,
			StockQty:    j.defaultStock,
		})
	}
	return out
}
