package catalog

import (
	"context"
	"errors"

	"github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/db/models"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"github.com/angelmondragon/comicstore/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryReader loads the viewer's wishlist entry for a comic.
type EntryReader interface {
	FindEntry(ctx context.Context, userID uuid.UUID, comicID int64) (*models.WishlistEntry, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo     *Repository
	Entries  EntryReader
	PageSize int
	Metrics  *metrics.StorefrontMetrics
}

// Service exposes catalog browsing and the sync write path.
type Service interface {
	List(ctx context.Context, pageRaw string) (ListPageDTO, error)
	Detail(ctx context.Context, account auth.Account, marvelID int64) (DetailDTO, error)
	Upsert(ctx context.Context, comics []ComicInput) (int, error)
}

type service struct {
	repo     *Repository
	entries  EntryReader
	pageSize int
	metrics  *metrics.StorefrontMetrics
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.Entries == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist entry reader is required")
	}
	return &service{
		repo:     params.Repo,
		entries:  params.Entries,
		pageSize: pagination.NormalizeSize(params.PageSize),
		metrics:  params.Metrics,
	}, nil
}

// List returns the requested page of the catalog, newest comics first.
func (s *service) List(ctx context.Context, pageRaw string) (ListPageDTO, error) {
	number, err := pagination.ParseNumber(pageRaw)
	if err != nil {
		return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid page").
			WithDetails(map[string]string{"page": err.Error()})
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count comics")
	}
	page := pagination.New(number, s.pageSize, total)
	if !page.InRange() {
		return ListPageDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "page %d does not exist", number)
	}

	rows, err := s.repo.ListPage(ctx, page.Offset(), page.Size)
	if err != nil {
		return ListPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comics")
	}
	comics := make([]ComicDTO, 0, len(rows))
	for _, row := range rows {
		comics = append(comics, FromModel(row))
	}
	return ListPageDTO{
		Comics:      comics,
		Page:        page.Number,
		NumPages:    page.NumPages,
		Total:       page.Total,
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
	}, nil
}

// Detail loads one comic by external id and, for a signed-in viewer, their
// favorite/cart/quantity state. A missing entry yields the default overlay;
// any other read failure is returned.
func (s *service) Detail(ctx context.Context, account auth.Account, marvelID int64) (DetailDTO, error) {
	if marvelID <= 0 {
		return DetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "marvel_id must be a positive integer")
	}
	comic, err := s.repo.FindByMarvelID(ctx, marvelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "comic not found")
		}
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comic")
	}

	detail := newDetail(*comic)
	if !account.IsAuthenticated() {
		return detail, nil
	}

	viewer := &ViewerDTO{}
	entry, err := s.entries.FindEntry(ctx, account.UserID, comic.ID)
	switch {
	case err == nil:
		viewer.Favorite = entry.Favorite
		viewer.Cart = entry.InCart
		viewer.WishedQty = entry.DesiredQty
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return DetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist entry")
	}
	detail.Viewer = viewer
	return detail, nil
}

// Upsert writes the provided comics keyed by marvel id.
func (s *service) Upsert(ctx context.Context, comics []ComicInput) (int, error) {
	// a single statement may not touch the same marvel_id twice on Postgres
	byMarvelID := make(map[int64]int, len(comics))
	rows := make([]models.Comic, 0, len(comics))
	for _, in := range comics {
		if in.MarvelID <= 0 {
			continue
		}
		if idx, ok := byMarvelID[in.MarvelID]; ok {
			rows[idx] = in.toModel()
			continue
		}
		byMarvelID[in.MarvelID] = len(rows)
		rows = append(rows, in.toModel())
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if _, err := s.repo.Upsert(ctx, rows); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert comics")
	}
	s.metrics.AddUpserts(len(rows))
	return len(rows), nil
}
