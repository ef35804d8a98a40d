package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/comicstore/internal/cart"
	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/checkout"
	"github.com/angelmondragon/comicstore/pkg/enums"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
)

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCatalogListPassesPage(t *testing.T) {
	svc := &stubCatalog{page: catalog.ListPageDTO{Page: 2, NumPages: 3}}
	resp := httptest.NewRecorder()
	CatalogList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/?page=2", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotPage != "2" {
		t.Fatalf("expected raw page to reach the service, got %q", svc.gotPage)
	}
	var page catalog.ListPageDTO
	decodeData(t, resp, &page)
	if page.Page != 2 || page.NumPages != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestCatalogListNotFound(t *testing.T) {
	svc := &stubCatalog{err: pkgerrors.New(pkgerrors.CodeNotFound, "page out of range")}
	resp := httptest.NewRecorder()
	CatalogList(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/?page=9", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestComicDetailUsesAccountAndQuery(t *testing.T) {
	svc := &stubCatalog{}
	resp := httptest.NewRecorder()
	ComicDetail(svc, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodGet, "/detail?marvel_id=82967", nil)))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotID != 82967 || svc.gotViewer.Username != "peter" {
		t.Fatalf("unexpected service call id=%d viewer=%+v", svc.gotID, svc.gotViewer)
	}
}

func TestComicDetailRejectsBadID(t *testing.T) {
	svc := &stubCatalog{}
	resp := httptest.NewRecorder()
	ComicDetail(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/detail?marvel_id=abc", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.gotID != 0 {
		t.Fatal("service should not be called")
	}
}

func TestCheckButtonDecodesForm(t *testing.T) {
	svc := &stubWishlist{redirect: "/detail?marvel_id=7"}
	req := asShopper(formRequest(http.MethodPost, "/check-button",
		"username=peter&marvel_id=7&user_authenticated=True&type_button=cart&actual_value=False&path=%2Fdetail%3Fmarvel_id%3D7"))
	resp := httptest.NewRecorder()
	CheckButton(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("Location") != "/detail?marvel_id=7" {
		t.Fatalf("unexpected location %q", resp.Header().Get("Location"))
	}
	want := svc.input
	if want.MarvelID != 7 || want.Kind != "cart" || want.ActualValue || want.Path != "/detail?marvel_id=7" || want.Username != "peter" {
		t.Fatalf("unexpected toggle input %+v", want)
	}
	if svc.account.UserID != shopper.UserID {
		t.Fatalf("expected account from context, got %+v", svc.account)
	}
}

func TestCheckButtonRejectsMalformedFlag(t *testing.T) {
	svc := &stubWishlist{}
	req := asShopper(formRequest(http.MethodPost, "/check-button", "marvel_id=7&type_button=cart&actual_value=maybe"))
	resp := httptest.NewRecorder()
	CheckButton(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.input.MarvelID != 0 {
		t.Fatal("service should not be called")
	}
}

func TestFavorites(t *testing.T) {
	resp := httptest.NewRecorder()
	Favorites(&stubWishlist{}, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodGet, "/wish", nil)))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"fav_items"`) {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateQuantityRedirectsToCart(t *testing.T) {
	svc := &stubCart{result: cart.ReconcileResult{Redirect: cart.RedirectPath, Outcome: enums.ReconcileOutcomeCapped, DesiredQty: 8}}
	resp := httptest.NewRecorder()
	UpdateQuantity(svc, nil).ServeHTTP(resp, asShopper(formRequest(http.MethodPost, "/update-qty", "comic_id=5&quantity=4")))

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/cart" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if svc.input.ComicID != 5 || svc.input.Quantity != 4 {
		t.Fatalf("unexpected input %+v", svc.input)
	}
	if !strings.Contains(resp.Body.String(), `"outcome":"capped"`) {
		t.Fatalf("expected outcome in body, got %s", resp.Body.String())
	}
}

func TestUpdateQuantityValidation(t *testing.T) {
	svc := &stubCart{}
	resp := httptest.NewRecorder()
	UpdateQuantity(svc, nil).ServeHTTP(resp, asShopper(formRequest(http.MethodPost, "/update-qty", "comic_id=5&quantity=0")))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateQuantityStateConflict(t *testing.T) {
	svc := &stubCart{err: pkgerrors.New(pkgerrors.CodeStateConflict, "comic is not in the cart")}
	resp := httptest.NewRecorder()
	UpdateQuantity(svc, nil).ServeHTTP(resp, asShopper(formRequest(http.MethodPost, "/update-qty", "comic_id=5&quantity=1")))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestCartView(t *testing.T) {
	svc := &stubCart{view: cart.ViewDTO{TotalPrice: "13.99"}}
	resp := httptest.NewRecorder()
	CartView(svc, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodGet, "/cart", nil)))
	if !strings.Contains(resp.Body.String(), `"total_price":"13.99"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCheckoutRedirectsToReceipt(t *testing.T) {
	svc := &stubCheckout{result: checkout.SettleResult{Redirect: "/thanks?settlement=abc", Units: 5, TotalPrice: "8.50"}}
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodPost, "/checkout", nil)))

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/thanks?settlement=abc" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Header().Get("Location"))
	}
}

func TestCheckoutShortage(t *testing.T) {
	svc := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")}
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodPost, "/checkout", nil)))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestThanksPassesSettlementID(t *testing.T) {
	svc := &stubCheckout{receipt: checkout.ReceiptDTO{Comics: []checkout.ReceiptLineDTO{}}}
	resp := httptest.NewRecorder()
	Thanks(svc, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodGet, "/thanks?settlement=abc", nil)))

	if resp.Code != http.StatusOK || svc.gotID != "abc" {
		t.Fatalf("unexpected response %d id=%q", resp.Code, svc.gotID)
	}
	if !strings.Contains(resp.Body.String(), `"comics":[]`) {
		t.Fatalf("expected empty comics list, got %s", resp.Body.String())
	}
}

func TestProfileUpdateDecodesForm(t *testing.T) {
	svc := &stubProfiles{}
	body := "name=Peter&surname=Parker&username=spidey&email=peter%40bugle.com&country=USA&state=NY&city=Queens&postal_code=11375&cell_phone_number=555"
	resp := httptest.NewRecorder()
	ProfileUpdate(svc, nil).ServeHTTP(resp, asShopper(formRequest(http.MethodPost, "/user/update", body)))

	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/user" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Header().Get("Location"))
	}
	in := svc.input
	if in.Username != "spidey" || in.Email != "peter@bugle.com" || in.City != "Queens" || in.PostalCode != "11375" {
		t.Fatalf("unexpected update input %+v", in)
	}
}

func TestProfileUpdateConflict(t *testing.T) {
	svc := &stubProfiles{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}
	resp := httptest.NewRecorder()
	ProfileUpdate(svc, nil).ServeHTTP(resp, asShopper(formRequest(http.MethodPost, "/user/update", "username=a&email=a%40b.c")))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestProfileViewAndForm(t *testing.T) {
	svc := &stubProfiles{}
	resp := httptest.NewRecorder()
	ProfileView(svc, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodGet, "/user", nil)))
	if !strings.Contains(resp.Body.String(), `"data_user"`) {
		t.Fatalf("unexpected view %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	ProfileForm(svc, nil).ServeHTTP(resp, asShopper(httptest.NewRequest(http.MethodGet, "/user/update", nil)))
	if !strings.Contains(resp.Body.String(), `"username":"peter"`) {
		t.Fatalf("unexpected form %s", resp.Body.String())
	}
}
