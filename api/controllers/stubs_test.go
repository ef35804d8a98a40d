package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/angelmondragon/comicstore/api/middleware"
	"github.com/angelmondragon/comicstore/internal/auth"
	"github.com/angelmondragon/comicstore/internal/cart"
	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/checkout"
	"github.com/angelmondragon/comicstore/internal/profiles"
	"github.com/angelmondragon/comicstore/internal/wishlist"
	pkgAuth "github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/google/uuid"
)

var shopper = pkgAuth.Account{UserID: uuid.MustParse("11111111-2222-4333-8444-555555555555"), Username: "peter", AccessID: "sess-1"}

func formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func asShopper(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithAccount(req.Context(), shopper))
}

type stubCatalog struct {
	page      catalog.ListPageDTO
	detail    catalog.DetailDTO
	err       error
	gotPage   string
	gotID     int64
	gotViewer pkgAuth.Account
}

func (s *stubCatalog) List(_ context.Context, pageRaw string) (catalog.ListPageDTO, error) {
	s.gotPage = pageRaw
	return s.page, s.err
}

func (s *stubCatalog) Detail(_ context.Context, account pkgAuth.Account, marvelID int64) (catalog.DetailDTO, error) {
	s.gotID = marvelID
	s.gotViewer = account
	return s.detail, s.err
}

func (s *stubCatalog) Upsert(context.Context, []catalog.ComicInput) (int, error) {
	return 0, nil
}

type stubWishlist struct {
	input    wishlist.ToggleInput
	account  pkgAuth.Account
	redirect string
	err      error
}

func (s *stubWishlist) Toggle(_ context.Context, account pkgAuth.Account, input wishlist.ToggleInput) (string, error) {
	s.account = account
	s.input = input
	return s.redirect, s.err
}

func (s *stubWishlist) Favorites(context.Context, pkgAuth.Account) (wishlist.FavoritesDTO, error) {
	return wishlist.FavoritesDTO{Items: []catalog.ComicDTO{{ID: 1, Title: "Spider-Man"}}}, s.err
}

type stubCart struct {
	input  cart.ReconcileInput
	result cart.ReconcileResult
	view   cart.ViewDTO
	err    error
}

func (s *stubCart) Reconcile(_ context.Context, _ pkgAuth.Account, input cart.ReconcileInput) (cart.ReconcileResult, error) {
	s.input = input
	return s.result, s.err
}

func (s *stubCart) View(context.Context, pkgAuth.Account) (cart.ViewDTO, error) {
	return s.view, s.err
}

type stubCheckout struct {
	result  checkout.SettleResult
	receipt checkout.ReceiptDTO
	gotID   string
	err     error
}

func (s *stubCheckout) Settle(context.Context, pkgAuth.Account) (checkout.SettleResult, error) {
	return s.result, s.err
}

func (s *stubCheckout) Receipt(_ context.Context, _ pkgAuth.Account, id string) (checkout.ReceiptDTO, error) {
	s.gotID = id
	return s.receipt, s.err
}

type stubProfiles struct {
	input profiles.UpdateInput
	err   error
}

func (s *stubProfiles) View(context.Context, pkgAuth.Account) (profiles.ViewDTO, error) {
	return profiles.ViewDTO{Fields: []profiles.FieldDTO{{Key: "name", Value: "Peter"}}}, s.err
}

func (s *stubProfiles) Form(context.Context, pkgAuth.Account) (profiles.FormDTO, error) {
	return profiles.FormDTO{Username: "peter"}, s.err
}

func (s *stubProfiles) Update(_ context.Context, _ pkgAuth.Account, input profiles.UpdateInput) error {
	s.input = input
	return s.err
}

type stubAuth struct {
	login        *auth.LoginResponse
	pair         *auth.TokenPair
	err          error
	loggedOut    pkgAuth.Account
	refreshFrom  string
	refreshToken string
}

func (s *stubAuth) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuth) Logout(_ context.Context, account pkgAuth.Account) error {
	s.loggedOut = account
	return s.err
}

func (s *stubAuth) Refresh(_ context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	s.refreshFrom = accessToken
	s.refreshToken = refreshToken
	return s.pair, s.err
}

type stubRegister struct {
	req auth.RegisterRequest
	err error
}

func (s *stubRegister) Register(_ context.Context, req auth.RegisterRequest) error {
	s.req = req
	return s.err
}
