package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"aquashop/config"
	"aquashop/models"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, "sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	t.Cleanup(func() { db.Close() })
	return db
}

func guppy() models.Fish {
	return models.Fish{
		Id:            "guppy",
		Name:          "Fancy Guppy",
		Price:         decimal.RequireFromString("120"),
		PriceUnit:     models.PerPiece,
		OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString("150")),
		Discount:      decimal.NewNullDecimal(decimal.NewFromInt(20)),
		Availability:  models.InStock,
		Category:      "livebearer",
		Description:   "Colourful and hardy",
		Care:          models.Care{Level: "easy", Temperature: "22-28C"},
	}
}

func TestFishRepoCRUD(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFishRepository(openTestDB(t))
	require.NoError(t, err)

	f := guppy()
	require.NoError(t, repo.CreateFish(ctx, f))
	assert.ErrorIs(t, repo.CreateFish(ctx, f), models.ErrNotAllowed)

	got, ok, err := repo.GetFishById(ctx, "guppy")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(f, got, decimalEqual); diff != "" {
		t.Errorf("fish mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got.DiscountPrice.Valid)

	f.Availability = models.SoldOut
	f.Discount = decimal.NullDecimal{}
	require.NoError(t, repo.UpdateFish(ctx, f))
	got, _, err = repo.GetFishById(ctx, "guppy")
	require.NoError(t, err)
	assert.Equal(t, models.SoldOut, got.Availability)
	assert.False(t, got.Discount.Valid)

	missing := guppy()
	missing.Id = "molly"
	assert.ErrorIs(t, repo.UpdateFish(ctx, missing), models.ErrNotFoundError)

	require.NoError(t, repo.DeleteFish(ctx, "guppy"))
	assert.ErrorIs(t, repo.DeleteFish(ctx, "guppy"), models.ErrNotFoundError)
	_, ok, err = repo.GetFishById(ctx, "guppy")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFishRepoListAndUpsert(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFishRepository(openTestDB(t))
	require.NoError(t, err)

	f := guppy()
	require.NoError(t, repo.UpsertFish(ctx, f))
	f.Price = decimal.NewFromInt(99)
	require.NoError(t, repo.UpsertFish(ctx, f))

	other := guppy()
	other.Id = "oscar"
	other.Name = "Oscar"
	other.Category = "cichlid"
	require.NoError(t, repo.UpsertFish(ctx, other))

	all, err := repo.ListFishes(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "guppy", all[0].Id)
	assert.True(t, decimal.NewFromInt(99).Equal(all[0].Price))

	cichlids, err := repo.ListFishes(ctx, "cichlid")
	require.NoError(t, err)
	require.Len(t, cichlids, 1)
	assert.Equal(t, "oscar", cichlids[0].Id)

	none, err := repo.ListFishes(ctx, "marine")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cichlid", "livebearer"}, cats)
}

func TestValidateFish(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Fish)
		err    error
	}{
		{"valid", func(*models.Fish) {}, nil},
		{"empty id", func(f *models.Fish) { f.Id = "" }, models.ErrNotAllowed},
		{"short name", func(f *models.Fish) { f.Name = "A" }, models.ErrNotAllowed},
		{"script in name", func(f *models.Fish) { f.Name = "<b>Guppy</b>" }, models.ErrNotAllowed},
		{"negative price", func(f *models.Fish) { f.Price = decimal.NewFromInt(-1) }, models.ErrNotAllowed},
		{"bad unit", func(f *models.Fish) { f.PriceUnit = "litre" }, models.ErrNotAllowed},
		{"bad availability", func(f *models.Fish) { f.Availability = "maybe" }, models.ErrNotAllowed},
		{"discount over 100", func(f *models.Fish) { f.Discount = decimal.NewNullDecimal(decimal.NewFromInt(101)) }, models.ErrNotAllowed},
		{"negative discount price", func(f *models.Fish) {
			f.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(-5))
		}, models.ErrNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := guppy()
			tt.mutate(&f)
			err := ValidateFish(f)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func sampleOrder(id string, created time.Time) models.Order {
	return models.Order{
		Id:              id,
		CustomerName:    "Rahim",
		CustomerPhone:   "01700000000",
		CustomerAddress: "Dhaka",
		Items: []models.OrderItem{
			{FishId: "guppy", Name: "Fancy Guppy", PriceUnit: models.PerPiece, Quantity: 2,
				UnitPrice: decimal.NewFromInt(120), LineTotal: decimal.NewFromInt(240)},
			{FishId: "oscar", Name: "Oscar", PriceUnit: models.PerPiece, Quantity: 1,
				UnitPrice: decimal.NewFromInt(800), LineTotal: decimal.NewFromInt(800)},
		},
		Subtotal:       decimal.NewFromInt(1040),
		DeliveryCharge: decimal.NewFromInt(60),
		Total:          decimal.NewFromInt(1100),
		Status:         models.StatusPending,
		CreatedAt:      created,
	}
}

func TestOrderRepo(t *testing.T) {
	ctx := context.Background()
	repo, err := NewOrderRepository(openTestDB(t))
	require.NoError(t, err)

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	first := sampleOrder("o-1", t0)
	second := sampleOrder("o-2", t0.Add(time.Hour))
	require.NoError(t, repo.CreateOrder(ctx, first))
	require.NoError(t, repo.CreateOrder(ctx, second))
	assert.ErrorIs(t, repo.CreateOrder(ctx, first), models.ErrServerError)

	got, err := repo.GetOrderById(ctx, "o-1")
	require.NoError(t, err)
	if diff := cmp.Diff(first, got, decimalEqual); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	_, err = repo.GetOrderById(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFoundError)

	require.NoError(t, repo.SetOrderStatus(ctx, "o-1", models.StatusConfirmed))
	assert.ErrorIs(t, repo.SetOrderStatus(ctx, "nope", models.StatusConfirmed), models.ErrNotFoundError)

	list, err := repo.ListOrders(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o-2", list[0].Id)
	assert.Len(t, list[1].Items, 2)

	pending, err := repo.ListOrders(ctx, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "o-2", pending[0].Id)
}

func TestAdminRepo(t *testing.T) {
	hash, err := EncryptPassword("s3cret")
	require.NoError(t, err)
	_, err = bcrypt.Cost([]byte(hash))
	require.NoError(t, err)

	admin, err := NewAdminRepository("admin", hash)
	require.NoError(t, err)
	assert.True(t, admin.VerifyCredentials("admin", "s3cret"))
	assert.False(t, admin.VerifyCredentials("admin", "wrong"))
	assert.False(t, admin.VerifyCredentials("root", "s3cret"))

	disabled, err := NewAdminRepository("admin", "")
	require.NoError(t, err)
	assert.False(t, disabled.VerifyCredentials("admin", ""))

	_, err = NewAdminRepository("admin", "not-a-hash")
	assert.Error(t, err)
	_, err = EncryptPassword("")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

// Redis-backed stores run only against a live server.
func TestRedisStores(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, config.Redis{URL: url, ReadTimeout: 3, WriteTimeout: 3, DialTimeout: 5})
	require.NoError(t, err)
	defer rdb.Close()

	carts, err := NewCartRepository(rdb, time.Minute)
	require.NoError(t, err)
	key := "test-" + time.Now().Format("150405.000000000")
	data, err := carts.Read(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, data)
	require.NoError(t, carts.Write(ctx, key, []byte(`[]`)))
	data, err = carts.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	rdb.Del(ctx, cartKeyPrefix+key)

	sessions, err := NewSessionRepository(rdb, time.Minute)
	require.NoError(t, err)
	id, err := sessions.CreateSession(ctx, "admin")
	require.NoError(t, err)
	user, ok, err := sessions.GetSessionUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "admin", user)
	require.NoError(t, sessions.DeleteSession(ctx, id))
	ok, err = sessions.CheckSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}
