package testdb

import (
	"strconv"
	"testing"

	"github.com/angelmondragon/comicstore/pkg/db"
	"github.com/angelmondragon/comicstore/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedUser inserts an active account with a placeholder password hash.
func SeedUser(t *testing.T, client *db.Client, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$placeholder",
		FirstName:    "Peter",
		LastName:     "Parker",
		IsActive:     true,
	}
	if err := client.DB().Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// SeedComic inserts a catalog entry with the given stock and price.
func SeedComic(t *testing.T, client *db.Client, marvelID int64, stock int, price string) *models.Comic {
	t.Helper()
	comic := &models.Comic{
		MarvelID:    marvelID,
		Title:       "Comic " + strconv.FormatInt(marvelID, 10),
		Description: "first<br>second",
		Price:       decimal.RequireFromString(price),
		StockQty:    stock,
		Picture:     "http://img.test/" + strconv.FormatInt(marvelID, 10) + "/standard_xlarge.jpg",
	}
	if err := client.DB().Create(comic).Error; err != nil {
		t.Fatalf("seed comic %d: %v", marvelID, err)
	}
	return comic
}

// SeedEntry inserts a wishlist entry in the given state.
func SeedEntry(t *testing.T, client *db.Client, userID uuid.UUID, comicID int64, favorite, inCart bool, desired int) *models.WishlistEntry {
	t.Helper()
	entry := &models.WishlistEntry{
		UserID:     userID,
		ComicID:    comicID,
		Favorite:   favorite,
		InCart:     inCart,
		DesiredQty: desired,
	}
	if err := client.DB().Create(entry).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return entry
}
