// Package handler exposes the storefront as a JSON view API.
package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/storefront"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// Storefront is the state owner behind the API.
type Storefront interface {
	State() storefront.State
	Navigate(ctx context.Context, page storefront.Page) storefront.State
	SetCredentials(ctx context.Context, username, password string) storefront.State
	Register(ctx context.Context) storefront.State
	Login(ctx context.Context) storefront.State
	Logout(ctx context.Context) storefront.State
	AddToCart(ctx context.Context, productID string) (storefront.State, error)
	ClearCart(ctx context.Context) storefront.State
	PlaceOrder(ctx context.Context) (storefront.State, *order.Order, error)
}

var _ Storefront = (*store.Store)(nil)

// Handler serves the view API.
type Handler struct {
	sf       Storefront
	validate *validator.Validate
}

// NewHandler creates a Handler backed by sf.
func NewHandler(sf Storefront) *Handler {
	return &Handler{
		sf:       sf,
		validate: newValidator(),
	}
}

// Routes mounts the API routes on r.
func (h *Handler) Routes(r *mux.Router) {
	r.Handle("/view", h.handle(h.getView)).Methods(http.MethodGet)
	r.Handle("/products", h.handle(h.listProducts)).Methods(http.MethodGet)
	r.Handle("/navigate", h.handle(h.navigate)).Methods(http.MethodPost)
	r.Handle("/credentials", h.handle(h.setCredentials)).Methods(http.MethodPut)
	r.Handle("/register", h.handle(h.register)).Methods(http.MethodPost)
	r.Handle("/login", h.handle(h.login)).Methods(http.MethodPost)
	r.Handle("/logout", h.handle(h.logout)).Methods(http.MethodPost)
	r.Handle("/cart/items", h.handle(h.addToCart)).Methods(http.MethodPost)
	r.Handle("/cart", h.handle(h.clearCart)).Methods(http.MethodDelete)
	r.Handle("/orders", h.handle(h.placeOrder)).Methods(http.MethodPost)
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h *Handler) handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			code, msg := mapError(err)
			if code >= http.StatusInternalServerError {
				zctx.From(r.Context()).Error("Request failed", zap.Error(err))
			}
			httpmiddleware.WriteError(w, code, msg)
		}
	})
}

func (h *Handler) getView(w http.ResponseWriter, _ *http.Request) error {
	writeView(w, http.StatusOK, h.sf.State())
	return nil
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) error {
	products := product.Search(h.sf.State().Products, r.URL.Query().Get("q"))

	var e jx.Encoder
	encodeProducts(&e, products)
	writeJSON(w, http.StatusOK, e.Bytes())
	return nil
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) error {
	var req navigateRequest
	if err := h.decode(r, &req); err != nil {
		return err
	}
	page, err := storefront.ParsePage(req.Page)
	if err != nil {
		return err
	}
	writeView(w, http.StatusOK, h.sf.Navigate(r.Context(), page))
	return nil
}

func (h *Handler) setCredentials(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := h.decode(r, &req); err != nil {
		return err
	}
	writeView(w, http.StatusOK, h.sf.SetCredentials(r.Context(), req.Username, req.Password))
	return nil
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) error {
	writeView(w, http.StatusOK, h.sf.Register(r.Context()))
	return nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	writeView(w, http.StatusOK, h.sf.Login(r.Context()))
	return nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) error {
	writeView(w, http.StatusOK, h.sf.Logout(r.Context()))
	return nil
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) error {
	var req addItemRequest
	if err := h.decode(r, &req); err != nil {
		return err
	}
	s, err := h.sf.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		return err
	}
	writeView(w, http.StatusOK, s)
	return nil
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) error {
	writeView(w, http.StatusOK, h.sf.ClearCart(r.Context()))
	return nil
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) error {
	s, o, err := h.sf.PlaceOrder(r.Context())
	if err != nil {
		return err
	}
	w.Header().Set("Location", "/api/orders/"+o.ID)
	writeView(w, http.StatusCreated, s)
	return nil
}

// mapError converts domain errors to a status code and client message.
func mapError(err error) (int, string) {
	var bodyErr *BodyError
	if errors.As(err, &bodyErr) {
		return http.StatusBadRequest, bodyErr.Error()
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, validationMessage(vErrs)
	}
	switch {
	case errors.Is(err, storefront.ErrUnknownPage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, store.ErrEmptyCart):
		return http.StatusConflict, "cart is empty"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeView(w http.ResponseWriter, code int, s storefront.State) {
	var e jx.Encoder
	Project(s).Encode(&e)
	writeJSON(w, code, e.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
