package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquashop/assets"
	"aquashop/cart"
	"aquashop/config"
	"aquashop/handlers"
	"aquashop/models"
	"aquashop/repository/memory"
	"aquashop/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T) *Client {
	t.Helper()
	fishes := memory.NewFishRepository()
	require.NoError(t, fishes.CreateFish(context.Background(), models.Fish{
		Id: "neon", Name: "Neon Tetra", Price: decimal.RequireFromString("35"), PriceUnit: models.PerPiece,
		Discount: decimal.NewNullDecimal(decimal.NewFromInt(10)), Availability: models.InStock, Category: "tetra",
	}))
	m, err := cart.NewManager(memory.NewCartStore(), zap.NewNop(), 8)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	fs := services.NewFishService(fishes, assets.NewResolver("", nil))
	cs := services.NewCartService(&fs, m)
	ors := services.NewOrderService(&fs, &cs, memory.NewOrderRepository(),
		config.NewDelivery(decimal.NewFromInt(60), decimal.NewFromInt(1500)))
	as := services.NewAdminService(nil, memory.NewSessionRepository(0))
	h := handlers.NewHandler(handlers.HandlerParams{FishService: &fs, CartService: &cs, OrdService: &ors, AdminService: &as})

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestClientRoundTrip(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	list, err := c.ListFishes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	// discount without originalPrice falls through to price
	assert.Equal(t, "35.00", list[0].EffectivePrice.StringFixed(2))
	assert.Equal(t, "/static/fish/tetra.jpg", list[0].Image)

	byCat, err := c.ListFishesByCategory(ctx, "tetra")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)

	_, err = c.GetFish(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFoundError)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)

	order, err := c.CreateOrder(ctx, models.OrderRequest{
		Customer: models.Customer{CustomerName: "Joy", CustomerPhone: "01511000000", CustomerAddress: "Banani"},
		Items:    []models.OrderRequestItem{{FishId: "neon", Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "410.00", order.Total.StringFixed(2))

	neon := list[0].Fish
	neon.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(30))
	updated, err := c.UpdateFish(ctx, "neon", neon)
	require.NoError(t, err)
	assert.Equal(t, "30.00", updated.EffectivePrice.StringFixed(2))

	require.NoError(t, c.DeleteFish(ctx, "neon"))
	assert.ErrorIs(t, c.DeleteFish(ctx, "neon"), models.ErrNotFoundError)

	_, err = c.CreateOrder(ctx, models.OrderRequest{})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api")
	assert.Error(t, err)
}
