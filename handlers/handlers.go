package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"aquashop/entities"
	"aquashop/models"
	"aquashop/services"
	"aquashop/tracing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	cartCookie  = "cartSessionId"
	adminCookie = "adminSessionId"
)

type Handler struct {
	fs  *services.FishService
	cs  *services.CartService
	ors *services.OrderService
	as  *services.AdminService
	log *zap.Logger

	cartTTL      time.Duration
	adminTTL     time.Duration
	secureCookie bool
}

type HandlerParams struct {
	FishService  *services.FishService
	CartService  *services.CartService
	OrdService   *services.OrderService
	AdminService *services.AdminService
	Logger       *zap.Logger

	CartTTL      time.Duration
	AdminTTL     time.Duration
	SecureCookie bool
}

func NewHandler(params HandlerParams) *Handler {
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if params.CartTTL <= 0 {
		params.CartTTL = 24 * time.Hour
	}
	if params.AdminTTL <= 0 {
		params.AdminTTL = 30 * time.Minute
	}
	return &Handler{
		fs:           params.FishService,
		cs:           params.CartService,
		ors:          params.OrdService,
		as:           params.AdminService,
		log:          log,
		cartTTL:      params.CartTTL,
		adminTTL:     params.AdminTTL,
		secureCookie: params.SecureCookie,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, entities.Health{Status: "ok"})
}

// fishes

// ListFishes returns the catalog.
// @Summary List fishes
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {array} entities.Fish
// @Router /fishes [get]
func (h *Handler) ListFishes(w http.ResponseWriter, r *http.Request) {
	fishes, err := h.fs.ListFishes(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, fishes)
}

// GetFish returns one fish.
// @Summary Get fish
// @Produce json
// @Param id path string true "Fish ID"
// @Success 200 {object} entities.Fish
// @Failure 404
// @Router /fishes/{id} [get]
func (h *Handler) GetFish(w http.ResponseWriter, r *http.Request) {
	fish, err := h.fs.GetFishView(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, fish)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.fs.ListCategories(r.Context())
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) CompareFishes(w http.ResponseWriter, r *http.Request) {
	ids := strings.Split(r.URL.Query().Get("ids"), ",")
	rows, err := h.fs.Compare(r.Context(), ids)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// CreateFish adds a catalog item.
// @Summary Create fish
// @Accept json
// @Produce json
// @Param fish body models.Fish true "Fish"
// @Success 201 {object} entities.Fish
// @Router /fishes [post]
func (h *Handler) CreateFish(w http.ResponseWriter, r *http.Request) {
	var f models.Fish
	if !h.decode(w, r, &f) {
		return
	}
	fish, err := h.fs.CreateFish(r.Context(), f)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, fish)
}

// UpdateFish replaces a catalog item.
// @Summary Update fish
// @Accept json
// @Produce json
// @Param id path string true "Fish ID"
// @Param fish body models.Fish true "Fish"
// @Success 200 {object} entities.Fish
// @Router /fishes/{id} [put]
func (h *Handler) UpdateFish(w http.ResponseWriter, r *http.Request) {
	var f models.Fish
	if !h.decode(w, r, &f) {
		return
	}
	fish, err := h.fs.UpdateFish(r.Context(), mux.Vars(r)["id"], f)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, fish)
}

// DeleteFish removes a catalog item.
// @Summary Delete fish
// @Param id path string true "Fish ID"
// @Success 204
// @Router /fishes/{id} [delete]
func (h *Handler) DeleteFish(w http.ResponseWriter, r *http.Request) {
	err := h.fs.DeleteFish(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cart

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	var cartSessionId string
	if c, err := r.Cookie(cartCookie); err == nil {
		cartSessionId = c.Value
	}
	h.writeJSON(w, http.StatusOK, h.cs.GetCart(r.Context(), cartSessionId))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req entities.CartRequest
	if !h.decode(w, r, &req) {
		return
	}
	cartSessionId := h.cartSession(w, r)
	resp, err := h.cs.AddCartItem(r.Context(), cartSessionId, req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req entities.QuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	cartSessionId := h.cartSession(w, r)
	resp, err := h.cs.SetQuantity(r.Context(), cartSessionId, mux.Vars(r)["id"], req.Quantity)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteFromCart(w http.ResponseWriter, r *http.Request) {
	cartSessionId := h.cartSession(w, r)
	h.writeJSON(w, http.StatusOK, h.cs.RemoveCartItem(r.Context(), cartSessionId, mux.Vars(r)["id"]))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	var cartSessionId string
	if c, err := r.Cookie(cartCookie); err == nil {
		cartSessionId = c.Value
	}
	h.writeJSON(w, http.StatusOK, h.cs.ClearCart(r.Context(), cartSessionId))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var customer models.Customer
	if !h.decode(w, r, &customer) {
		return
	}
	c, err := r.Cookie(cartCookie)
	if err != nil {
		WriteErrorResponse(w, models.ErrBadRequest)
		return
	}
	order, err := h.ors.Checkout(r.Context(), c.Value, customer)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, order)
}

// cartSession returns the cart id from the cookie, issuing a new one when
// the browser has none. The cookie is refreshed on every mutation.
func (h *Handler) cartSession(w http.ResponseWriter, r *http.Request) string {
	var cartSessionId string
	if c, err := r.Cookie(cartCookie); err == nil && c.Value != "" {
		cartSessionId = c.Value
	} else {
		cartSessionId = h.cs.CreateCartSession()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    cartSessionId,
		Path:     "/",
		Expires:  time.Now().Add(h.cartTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return cartSessionId
}

// orders

// CreateOrder places an order. Totals are recomputed server side.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body models.OrderRequest true "Order"
// @Success 201 {object} models.Order
// @Failure 400
// @Router /orders [post]
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.ors.CreateOrder(r.Context(), req)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrderById(w http.ResponseWriter, r *http.Request) {
	order, err := h.ors.GetOrderById(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.ors.ListOrders(r.Context(), status)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req entities.StatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.ors.SetOrderStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

// admin

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{}
	if !h.decode(w, r, &creds) {
		return
	}
	sessionId, err := h.as.SigninRequest(r.Context(), creds)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookie,
		Value:    sessionId,
		Path:     "/",
		Expires:  time.Now().Add(h.adminTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	h.writeJSON(w, http.StatusOK, entities.AdminSession{Authenticated: true, Username: creds.Username})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(adminCookie); err == nil {
		if err := h.as.DeleteSessionRequest(r.Context(), c.Value); err != nil {
			WriteErrorResponse(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	var sessionId string
	if c, err := r.Cookie(adminCookie); err == nil {
		sessionId = c.Value
	}
	info, err := h.as.SessionInfo(r.Context(), sessionId)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

// middleware

func (h *Handler) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId, err := r.Cookie(adminCookie)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ok, err := h.as.CheckAccess(r.Context(), sessionId.Value)
		if !ok {
			if err != nil {
				h.log.Error("CheckSession", zap.Error(err))
				http.Error(w, "server error", http.StatusInternalServerError)
			} else {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("panic occurred", zap.Any("panic", rec), zap.ByteString("stacktrace", debug.Stack()))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// LogMiddleware writes one line per request.
func (h *Handler) LogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
			zap.String("trace_id", tracing.TraceID(r.Context())),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrServerError):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, models.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotAllowed):
		http.Error(w, err.Error(), http.StatusNotAcceptable)
	default:
		http.Error(w, models.ErrServerError.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.Info("Unmarshal err", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		h.log.Error("Marshal err", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}
