package wishlist

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/comicstore/internal/catalog"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
)

// ToggleInput is the decoded check-button form.
type ToggleInput struct {
	Username    string
	MarvelID    int64
	Kind        string
	ActualValue bool
	Path        string
}

// FavoritesDTO lists the comics the account marked as favorite.
type FavoritesDTO struct {
	Items []catalog.ComicDTO `json:"fav_items"`
}

// ParseFlag reads a button value rendered as True/False. Anything else is rejected.
func ParseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, pkgerrors.New(pkgerrors.CodeValidation, "actual_value must be True or False").
			WithDetails(map[string]string{"actual_value": "must be True or False"})
	}
}

// RedirectPath returns where the shopper lands after a toggle. Only local
// absolute paths are honored; detail pages get the comic id re-appended.
func RedirectPath(path string, marvelID int64) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.Contains(path, `\`) {
		path = "/"
	}
	if strings.Contains(path, "detail") {
		if idx := strings.IndexByte(path, '?'); idx >= 0 {
			path = path[:idx]
		}
		path += "?marvel_id=" + strconv.FormatInt(marvelID, 10)
	}
	return path
}
