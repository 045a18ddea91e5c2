package services

import (
	"context"

	"aquashop/cart"
	"aquashop/entities"
	"aquashop/models"
	"aquashop/pricing"
	"aquashop/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type CartService struct {
	fs *FishService
	cm *cart.Manager
}

func NewCartService(fishService *FishService, manager *cart.Manager) CartService {
	return CartService{
		fs: fishService,
		cm: manager,
	}
}

func (cs *CartService) CreateCartSession() (cartSessionId string) {
	return uuid.NewString()
}

// GetCart returns the cart for cartSessionId. An empty id is an empty cart.
func (cs *CartService) GetCart(ctx context.Context, cartSessionId string) entities.CartResponse {
	if cartSessionId == "" {
		return cs.response(cart.Empty())
	}
	return cs.response(cs.cm.Open(ctx, cartSessionId).State())
}

// Snapshot returns a copy of the cart state for checkout.
func (cs *CartService) Snapshot(ctx context.Context, cartSessionId string) cart.State {
	if cartSessionId == "" {
		return cart.Empty()
	}
	return cs.cm.Open(ctx, cartSessionId).State()
}

func (cs *CartService) AddCartItem(ctx context.Context, cartSessionId string, req entities.CartRequest) (resp entities.CartResponse, err error) {
	ctx, span := tracing.AddSpan(ctx, "CartService.AddCartItem",
		attribute.String("fish_id", req.FishId), attribute.Int("quantity", req.Quantity))
	defer span.End()

	if req.Quantity <= 0 || req.Quantity > cart.MaxQuantity {
		zap.L().Info("AddCartItem: quantity out of range", zap.Int("quantity", req.Quantity))
		err = models.ErrBadRequest
		return
	}
	f, e := cs.fs.GetFish(ctx, req.FishId)
	if e != nil {
		if e == models.ErrNotFoundError {
			zap.L().Info("AddCartItem: fish does not exist", zap.String("fish_id", req.FishId))
			e = models.ErrBadRequest
		}
		tracing.RecordError(span, e)
		err = e
		return
	}
	if !f.Available() {
		zap.L().Info("AddCartItem: fish is sold out", zap.String("fish_id", f.Id))
		err = models.ErrNotAllowed
		return
	}
	f.Image = cs.fs.images.ImageFor(f)
	state := cs.cm.Open(ctx, cartSessionId).Dispatch(cart.Add{Fish: f, Quantity: req.Quantity})
	resp = cs.response(state)
	return
}

// SetQuantity clamps negative quantities to zero, which removes the line.
// Unknown fish ids leave the cart unchanged.
func (cs *CartService) SetQuantity(ctx context.Context, cartSessionId, fishId string, quantity int) (resp entities.CartResponse, err error) {
	if quantity > cart.MaxQuantity {
		zap.L().Info("SetQuantity: quantity too large", zap.Int("quantity", quantity))
		err = models.ErrBadRequest
		return
	}
	state := cs.cm.Open(ctx, cartSessionId).Dispatch(cart.SetQuantity{FishID: fishId, Quantity: quantity})
	resp = cs.response(state)
	return
}

func (cs *CartService) RemoveCartItem(ctx context.Context, cartSessionId, fishId string) entities.CartResponse {
	state := cs.cm.Open(ctx, cartSessionId).Dispatch(cart.Remove{FishID: fishId})
	return cs.response(state)
}

func (cs *CartService) ClearCart(ctx context.Context, cartSessionId string) entities.CartResponse {
	if cartSessionId == "" {
		return cs.response(cart.Empty())
	}
	state := cs.cm.Open(ctx, cartSessionId).Dispatch(cart.Clear{})
	return cs.response(state)
}

// RemoveOrdered takes the lines of an ordered snapshot off the cart. Anything
// added after the snapshot was taken stays.
func (cs *CartService) RemoveOrdered(ctx context.Context, cartSessionId string, ordered cart.State) entities.CartResponse {
	if cartSessionId == "" {
		return cs.response(cart.Empty())
	}
	state := cs.cm.Open(ctx, cartSessionId).Dispatch(cart.Deduct{Items: ordered.Items})
	return cs.response(state)
}

func (cs *CartService) response(s cart.State) entities.CartResponse {
	items := make([]entities.CartItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, entities.CartItem{
			Fish:      cs.fs.View(it.Fish),
			Quantity:  it.Quantity,
			LineTotal: pricing.LineTotal(it.Fish, it.Quantity),
		})
	}
	return entities.CartResponse{
		Items:     items,
		Total:     s.Total,
		ItemCount: s.ItemCount,
	}
}
