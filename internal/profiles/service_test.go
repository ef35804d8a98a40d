package profiles

import (
	"context"
	"strings"
	"testing"

	"github.com/angelmondragon/comicstore/internal/testdb"
	"github.com/angelmondragon/comicstore/internal/users"
	"github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/db"
	"github.com/angelmondragon/comicstore/pkg/db/models"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:       client,
		Repo:     NewRepository(client.DB()),
		UserRepo: users.NewRepository(client.DB()),
	})
	require.NoError(t, err)
	return svc
}

func validInput() UpdateInput {
	return UpdateInput{
		Name:     "Miles",
		Surname:  "Morales",
		Username: "miles.m",
		Email:    "miles@example.com",
		AddressInput: AddressInput{
			Country:         "USA",
			State:           "NY",
			City:            "Brooklyn",
			PostalCode:      "11201",
			CellPhoneNumber: "12-3456-7890",
		},
	}
}

func TestViewCreatesDefaultProfile(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	svc := newTestService(t, client)

	view, err := svc.View(context.Background(), auth.Account{UserID: user.ID, Username: "peter"})
	require.NoError(t, err)

	keys := make([]string, 0, len(view.Fields))
	values := map[string]string{}
	for _, f := range view.Fields {
		keys = append(keys, f.Key)
		values[f.Key] = f.Value
	}
	assert.Equal(t, []string{"name", "surname", "username", "email", "country", "state", "city", "postal_code", "cell_phone_number"}, keys)
	assert.Equal(t, "Peter", values["name"])
	assert.Equal(t, "peter@example.com", values["email"])
	assert.Equal(t, models.DefaultPostalCode, values["postal_code"])
	assert.Equal(t, models.DefaultCellPhoneNumber, values["cell_phone_number"])

	var count int64
	require.NoError(t, client.DB().Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = svc.View(context.Background(), auth.Account{UserID: user.ID, Username: "peter"})
	require.NoError(t, err)
	require.NoError(t, client.DB().Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateOverwritesIdentityAndAddress(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: "peter"}
	ctx := context.Background()

	require.NoError(t, svc.Update(ctx, account, validInput()))

	form, err := svc.Form(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, FormDTO{
		Name:            "Miles",
		Surname:         "Morales",
		Username:        "miles.m",
		Email:           "miles@example.com",
		Country:         "USA",
		State:           "NY",
		City:            "Brooklyn",
		PostalCode:      "11201",
		CellPhoneNumber: "12-3456-7890",
	}, form)
}

func TestUpdateRejectsTakenIdentity(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	testdb.SeedUser(t, client, "mary")
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: "peter"}
	ctx := context.Background()

	in := validInput()
	in.Username = "mary"
	err := svc.Update(ctx, account, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	in = validInput()
	in.Email = "mary@example.com"
	err = svc.Update(ctx, account, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	in = validInput()
	in.Username = "peter"
	in.Email = "peter@example.com"
	assert.NoError(t, svc.Update(ctx, account, in))
}

func TestUpdateValidation(t *testing.T) {
	client := testdb.Open(t)
	user := testdb.SeedUser(t, client, "peter")
	svc := newTestService(t, client)
	account := auth.Account{UserID: user.ID, Username: "peter"}
	ctx := context.Background()

	cases := map[string]func(*UpdateInput){
		"username":          func(in *UpdateInput) { in.Username = "" },
		"email":             func(in *UpdateInput) { in.Email = "peter@" },
		"name":              func(in *UpdateInput) { in.Name = strings.Repeat("x", 101) },
		"surname":           func(in *UpdateInput) { in.Surname = strings.Repeat("y", 101) },
		"city":              func(in *UpdateInput) { in.City = strings.Repeat("x", 101) },
		"cell_phone_number": func(in *UpdateInput) { in.CellPhoneNumber = strings.Repeat("5", 21) },
	}
	for field, mutate := range cases {
		in := validInput()
		mutate(&in)
		err := svc.Update(ctx, account, in)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, field)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), field)
		assert.Contains(t, typed.Details(), field)
	}

	in := validInput()
	in.Username = "bad name!"
	assert.True(t, pkgerrors.IsCode(svc.Update(ctx, account, in), pkgerrors.CodeValidation))

	in = validInput()
	in.Name = strings.Repeat("x", 100)
	require.NoError(t, svc.Update(ctx, account, in), "a name at the column width is accepted")

	err := svc.Update(ctx, auth.Anonymous, validInput())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	err = svc.Update(ctx, auth.Account{UserID: uuid.New(), Username: "ghost"}, validInput())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
