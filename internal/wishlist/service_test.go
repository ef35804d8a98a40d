package wishlist

import (
	"context"
	"testing"

	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/testdb"
	"github.com/angelmondragon/comicstore/internal/users"
	"github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/db"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:          client,
		Repo:        NewRepository(client.DB()),
		CatalogRepo: catalog.NewRepository(client.DB()),
		UserRepo:    users.NewRepository(client.DB()),
		Metrics:     metrics.NewStorefrontMetrics(metrics.NewRegistry()),
	})
	require.NoError(t, err)
	return svc
}

func TestToggleCartCreatesEntry(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	comic := testdb.SeedComic(t, client, 42, 10, "3.00")
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: user.Username}

	redirect, err := svc.Toggle(context.Background(), account, ToggleInput{
		MarvelID:    42,
		Kind:        "cart",
		ActualValue: false,
		Path:        "/",
	})
	require.NoError(t, err)
	assert.Equal(t, "/", redirect)

	entry, err := NewRepository(client.DB()).FindEntry(context.Background(), user.ID, comic.ID)
	require.NoError(t, err)
	assert.False(t, entry.Favorite)
	assert.True(t, entry.InCart)
	assert.Equal(t, 0, entry.DesiredQty)
}

func TestToggleCartOffResetsQuantity(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	comic := testdb.SeedComic(t, client, 42, 10, "3.00")
	testdb.SeedEntry(t, client, user.ID, comic.ID, true, true, 4)
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: user.Username}

	redirect, err := svc.Toggle(context.Background(), account, ToggleInput{
		Username:    "peter",
		MarvelID:    42,
		Kind:        "cart",
		ActualValue: true,
		Path:        "/detail",
	})
	require.NoError(t, err)
	assert.Equal(t, "/detail?marvel_id=42", redirect)

	entry, err := NewRepository(client.DB()).FindEntry(context.Background(), user.ID, comic.ID)
	require.NoError(t, err)
	assert.False(t, entry.InCart)
	assert.Equal(t, 0, entry.DesiredQty)
	assert.True(t, entry.Favorite)
}

func TestToggleFavoriteLeavesCartAlone(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	comic := testdb.SeedComic(t, client, 42, 10, "3.00")
	testdb.SeedEntry(t, client, user.ID, comic.ID, false, true, 2)
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: user.Username}

	_, err := svc.Toggle(context.Background(), account, ToggleInput{MarvelID: 42, Kind: "favorite", ActualValue: false, Path: "/wish"})
	require.NoError(t, err)

	entry, err := NewRepository(client.DB()).FindEntry(context.Background(), user.ID, comic.ID)
	require.NoError(t, err)
	assert.True(t, entry.Favorite)
	assert.True(t, entry.InCart)
	assert.Equal(t, 2, entry.DesiredQty)

	favorites, err := svc.Favorites(context.Background(), account)
	require.NoError(t, err)
	require.Len(t, favorites.Items, 1)
	assert.EqualValues(t, 42, favorites.Items[0].MarvelID)
}

func TestToggleUnknownKindIsNoop(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	comic := testdb.SeedComic(t, client, 42, 10, "3.00")
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: user.Username}

	redirect, err := svc.Toggle(context.Background(), account, ToggleInput{MarvelID: 42, Kind: "share", Path: "/comics/detail?marvel_id=1"})
	require.NoError(t, err)
	assert.Equal(t, "/comics/detail?marvel_id=42", redirect)

	_, err = NewRepository(client.DB()).FindEntry(context.Background(), user.ID, comic.ID)
	assert.Error(t, err)
}

func TestToggleRejections(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	testdb.SeedComic(t, client, 42, 10, "3.00")
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: user.Username}
	ctx := context.Background()

	_, err := svc.Toggle(ctx, auth.Anonymous, ToggleInput{MarvelID: 42, Kind: "cart"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Toggle(ctx, account, ToggleInput{Username: "mary", MarvelID: 42, Kind: "cart"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = svc.Toggle(ctx, account, ToggleInput{MarvelID: 0, Kind: "cart"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Toggle(ctx, account, ToggleInput{MarvelID: 99, Kind: "cart"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	ghost := auth.Account{UserID: uuid.New(), Username: "ghost"}
	_, err = svc.Toggle(ctx, ghost, ToggleInput{MarvelID: 42, Kind: "cart"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestToggleAfterRenameUsesStoredUsername(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	comic := testdb.SeedComic(t, client, 42, 10, "3.00")
	svc := newTestService(t, client)
	ctx := context.Background()

	require.NoError(t, users.NewRepository(client.DB()).UpdateIdentity(ctx, user.ID, users.IdentityUpdate{
		FirstName: "Peter",
		LastName:  "Parker",
		Username:  "spidey",
		Email:     user.Email,
	}))

	// the access token still carries the username from login
	stale := auth.Account{UserID: user.ID, Username: "peter"}

	_, err := svc.Toggle(ctx, stale, ToggleInput{Username: "spidey", MarvelID: 42, Kind: "cart"})
	require.NoError(t, err)

	entry, err := NewRepository(client.DB()).FindEntry(ctx, user.ID, comic.ID)
	require.NoError(t, err)
	assert.True(t, entry.InCart)

	_, err = svc.Toggle(ctx, stale, ToggleInput{Username: "peter", MarvelID: 42, Kind: "favorite"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "the old username no longer matches")
}

func TestRedirectPath(t *testing.T) {
	cases := map[string]string{
		"":                    "/",
		"/":                   "/",
		"/cart":               "/cart",
		"//evil.example":      "/",
		"https://evil.test/":  "/",
		"/detail":             "/detail?marvel_id=7",
		"/detail?marvel_id=3": "/detail?marvel_id=7",
	}
	for in, want := range cases {
		if got := RedirectPath(in, 7); got != want {
			t.Fatalf("RedirectPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFlag(t *testing.T) {
	for raw, want := range map[string]bool{"True": true, "false": false, " TRUE ": true, "False": false} {
		got, err := ParseFlag(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFlag(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := ParseFlag("yes"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParseFlag(""); err == nil {
		t.Fatal("expected empty value to be rejected")
	}
}
