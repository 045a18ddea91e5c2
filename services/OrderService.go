package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"aquashop/cart"
	"aquashop/config"
	"aquashop/models"
	"aquashop/pricing"
	"aquashop/repository"
	"aquashop/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OrderService struct {
	fs       *FishService
	cs       *CartService
	or       repository.OrderRepository
	delivery config.Delivery
	now      func() time.Time
}

func NewOrderService(fishService *FishService, cartService *CartService, orderRepo repository.OrderRepository, delivery config.Delivery) OrderService {
	return OrderService{
		fs:       fishService,
		cs:       cartService,
		or:       orderRepo,
		delivery: delivery,
		now:      time.Now,
	}
}

// DeliveryCharge is the flat fee, waived once subtotal reaches the free
// delivery threshold. A zero threshold never waives it.
func (ors *OrderService) DeliveryCharge(subtotal decimal.Decimal) decimal.Decimal {
	free := ors.delivery.FreeFrom()
	if free.IsPositive() && subtotal.GreaterThanOrEqual(free) {
		return decimal.Zero
	}
	return ors.delivery.ChargeAmount()
}

// CreateOrder prices the request against the current catalog. Totals sent
// by the client are ignored.
func (ors *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) (order models.Order, err error) {
	ctx, span := tracing.AddSpan(ctx, "OrderService.CreateOrder", attribute.Int("items", len(req.Items)))
	defer span.End()
	defer func() { tracing.RecordError(span, err) }()

	customer, e := validateCustomer(req.Customer)
	if e != nil {
		err = e
		return
	}
	if len(req.Items) == 0 {
		zap.L().Info("CreateOrder: order has no items")
		err = models.ErrBadRequest
		return
	}

	var ids []string
	qty := map[string]int{}
	for _, it := range req.Items {
		id := it.ID()
		if id == "" || it.Quantity <= 0 || it.Quantity > cart.MaxQuantity-qty[id] {
			zap.L().Info("CreateOrder: invalid item", zap.String("fish_id", id), zap.Int("quantity", it.Quantity))
			err = models.ErrBadRequest
			return
		}
		if _, ok := qty[id]; !ok {
			ids = append(ids, id)
		}
		qty[id] += it.Quantity
	}

	order = models.Order{
		Id:              uuid.NewString(),
		CustomerName:    customer.CustomerName,
		CustomerPhone:   customer.CustomerPhone,
		CustomerAddress: customer.CustomerAddress,
		Items:           make([]models.OrderItem, 0, len(ids)),
		Subtotal:        decimal.Zero,
		Status:          models.StatusPending,
		CreatedAt:       ors.now().UTC().Truncate(time.Second),
	}
	for _, id := range ids {
		f, e := ors.fs.GetFish(ctx, id)
		if e != nil {
			if e == models.ErrNotFoundError {
				zap.L().Info("CreateOrder: fish does not exist", zap.String("fish_id", id))
				e = models.ErrBadRequest
			}
			err = e
			return
		}
		if !f.Available() {
			zap.L().Info("CreateOrder: fish is sold out", zap.String("fish_id", id))
			err = models.ErrNotAllowed
			return
		}
		line := models.OrderItem{
			FishId:    f.Id,
			Name:      f.Name,
			PriceUnit: f.PriceUnit,
			Quantity:  qty[id],
			UnitPrice: pricing.EffectivePrice(f),
			LineTotal: pricing.LineTotal(f, qty[id]),
		}
		order.Items = append(order.Items, line)
		order.Subtotal = order.Subtotal.Add(line.LineTotal)
	}
	order.DeliveryCharge = ors.DeliveryCharge(order.Subtotal)
	order.Total = order.Subtotal.Add(order.DeliveryCharge)

	if req.Total.Valid && !req.Total.Decimal.Equal(order.Total) {
		zap.L().Info("CreateOrder: client total differs",
			zap.String("client_total", req.Total.Decimal.StringFixed(2)),
			zap.String("total", order.Total.StringFixed(2)))
	}

	err = ors.or.CreateOrder(ctx, order)
	if err != nil {
		order = models.Order{}
		return
	}
	zap.L().Info("order created", zap.String("order_id", order.Id), zap.String("total", order.Total.StringFixed(2)))
	return
}

// Checkout turns the cart into an order and takes the ordered lines off the
// cart once the order is stored.
func (ors *OrderService) Checkout(ctx context.Context, cartSessionId string, customer models.Customer) (order models.Order, err error) {
	state := ors.cs.Snapshot(ctx, cartSessionId)
	if len(state.Items) == 0 {
		zap.L().Info("Checkout: cart is empty")
		err = models.ErrBadRequest
		return
	}
	req := models.OrderRequest{Customer: customer}
	for _, it := range state.Items {
		req.Items = append(req.Items, models.OrderRequestItem{FishId: it.Fish.Id, Quantity: it.Quantity})
	}
	order, err = ors.CreateOrder(ctx, req)
	if err != nil {
		return
	}
	ors.cs.RemoveOrdered(ctx, cartSessionId, state)
	return
}

func (ors *OrderService) GetOrderById(ctx context.Context, orderId string) (order models.Order, err error) {
	order, err = ors.or.GetOrderById(ctx, orderId)
	return
}

func (ors *OrderService) ListOrders(ctx context.Context, status models.OrderStatus) (orders []models.Order, err error) {
	if status != "" && !validStatus(status) {
		err = models.ErrBadRequest
		return
	}
	orders, err = ors.or.ListOrders(ctx, status)
	return
}

func (ors *OrderService) SetOrderStatus(ctx context.Context, orderId string, status models.OrderStatus) (order models.Order, err error) {
	if !validStatus(status) {
		zap.L().Info("SetOrderStatus: unknown status", zap.String("status", string(status)))
		err = models.ErrBadRequest
		return
	}
	order, err = ors.or.GetOrderById(ctx, orderId)
	if err != nil {
		return
	}
	if !order.Status.CanBecome(status) {
		zap.L().Info("SetOrderStatus: transition not allowed",
			zap.String("order_id", orderId), zap.String("from", string(order.Status)), zap.String("to", string(status)))
		err = models.ErrNotAllowed
		return
	}
	err = ors.or.SetOrderStatus(ctx, orderId, status)
	if err != nil {
		return
	}
	order.Status = status
	return
}

func validStatus(s models.OrderStatus) bool {
	switch s {
	case models.StatusPending, models.StatusConfirmed, models.StatusDelivered, models.StatusCancelled:
		return true
	}
	return false
}

func validateCustomer(c models.Customer) (models.Customer, error) {
	c.CustomerName = strings.TrimSpace(c.CustomerName)
	c.CustomerPhone = strings.TrimSpace(c.CustomerPhone)
	c.CustomerAddress = strings.TrimSpace(c.CustomerAddress)
	switch {
	case c.CustomerName == "" || len([]rune(c.CustomerName)) > 100:
		zap.L().Info("customerName field is invalid")
		return c, models.ErrBadRequest
	case !isValidPhone(c.CustomerPhone):
		zap.L().Info("customerPhone field is invalid")
		return c, models.ErrBadRequest
	case c.CustomerAddress == "" || len([]rune(c.CustomerAddress)) > 300:
		zap.L().Info("customerAddress field is invalid")
		return c, models.ErrBadRequest
	}
	return c, nil
}

func isValidPhone(phone string) bool {
	digits := 0
	for i, c := range phone {
		switch {
		case unicode.IsDigit(c):
			digits++
		case c == '+' && i == 0, c == ' ', c == '-':
		default:
			return false
		}
	}
	return digits >= 6 && digits <= 15
}
