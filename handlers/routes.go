package handlers

import (
	"net/http"

	"aquashop/tracing"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router wires every endpoint. Order routes that list or change orders sit
// behind the admin session.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.ErrorHandleMiddleware)
	router.Use(tracing.Middleware)
	router.Use(h.LogMiddleware)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	router.HandleFunc("/fishes", h.ListFishes).Methods(http.MethodGet)
	router.HandleFunc("/fishes", h.CreateFish).Methods(http.MethodPost)
	router.HandleFunc("/fishes/compare", h.CompareFishes).Methods(http.MethodGet)
	router.HandleFunc("/fishes/{id}", h.GetFish).Methods(http.MethodGet)
	router.HandleFunc("/fishes/{id}", h.UpdateFish).Methods(http.MethodPut)
	router.HandleFunc("/fishes/{id}", h.DeleteFish).Methods(http.MethodDelete)
	router.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)

	router.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/cart", h.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/cart/items", h.AddToCart).Methods(http.MethodPost)
	router.HandleFunc("/cart/items/{id}", h.UpdateCartItem).Methods(http.MethodPut)
	router.HandleFunc("/cart/items/{id}", h.DeleteFromCart).Methods(http.MethodDelete)
	router.HandleFunc("/cart/checkout", h.Checkout).Methods(http.MethodPost)

	router.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/{id}", h.GetOrderById).Methods(http.MethodGet)

	router.HandleFunc("/admin/login", h.Signin).Methods(http.MethodPost)
	router.HandleFunc("/admin/logout", h.Logout).Methods(http.MethodPost)
	router.HandleFunc("/admin/session", h.Session).Methods(http.MethodGet)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// registered last so that a method mismatch inside the subrouter does not
	// shadow the public routes sharing its paths
	subAdmin := router.NewRoute().Subrouter()
	subAdmin.Use(h.AdminAuthMiddleware)
	subAdmin.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	subAdmin.HandleFunc("/orders/{id}/status", h.SetOrderStatus).Methods(http.MethodPut)
	return router
}
