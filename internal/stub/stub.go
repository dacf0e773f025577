// Package stub is an in-memory catalog and user service speaking the
// remote storefront protocol. It backs local development and end-to-end
// tests.
package stub

import (
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/product"
)

// Messages returned by the user endpoints.
const (
	MsgRegistered    = "Registration successful!"
	MsgUsernameTaken = "Username already exists"
	MsgLoggedIn      = "Login successful!"
	MsgInvalidLogin  = "Invalid credentials"
	MsgMissingFields = "Username and password are required"
	MsgSeeded        = "Dummy data added"
)

// DummyProducts are added by the seed endpoint.
var DummyProducts = []product.Product{
	{Name: "Wireless Headphones", Description: "Over-ear, noise cancelling.", Price: decimal.RequireFromString("59.99")},
	{Name: "Cotton T-Shirt", Description: "Plain crew neck, 100% cotton.", Price: decimal.RequireFromString("19.99")},
	{Name: "Coffee Mug", Description: "Ceramic, 350 ml.", Price: decimal.RequireFromString("9.50")},
}

type user struct {
	id       uuid.UUID
	password string
}

// Server holds the catalog and registered users in memory.
type Server struct {
	mu       sync.Mutex
	products []product.Product
	nextID   int
	users    map[string]user
}

// New creates an empty Server.
func New() *Server {
	return &Server{nextID: 1, users: map[string]user{}}
}

// Products returns a copy of the catalog.
func (s *Server) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Product(nil), s.products...)
}

// Add appends products to the catalog, assigning sequential IDs.
func (s *Server) Add(products ...product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(products)
}

func (s *Server) add(products []product.Product) {
	for _, p := range products {
		p.ID = strconv.Itoa(s.nextID)
		s.nextID++
		s.products = append(s.products, p)
	}
}

// Routes mounts the service endpoints on r.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/add-dummy-data", s.seed).Methods(http.MethodPost)
	r.HandleFunc("/users/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/users/login", s.login).Methods(http.MethodPost)
}

// Handler returns the service mounted under /api.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.Routes(r.PathPrefix("/api").Subrouter())
	return r
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	products := s.Products()

	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		e.ObjStart()
		e.FieldStart("id")
		e.Raw([]byte(p.ID))
		e.FieldStart("name")
		e.Str(p.Name)
		e.FieldStart("description")
		e.Str(p.Description)
		e.FieldStart("price")
		e.Raw([]byte(p.Price.String()))
		e.ObjEnd()
	}
	e.ArrEnd()
	write(w, http.StatusOK, e.Bytes())
}

func (s *Server) seed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seeded := len(s.products) == 0
	if seeded {
		s.add(DummyProducts)
	}
	s.mu.Unlock()

	zctx.From(r.Context()).Info("Seed requested", zap.Bool("seeded", seeded))
	writeMessage(w, http.StatusCreated, MsgSeeded)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	c, ok := readCredentials(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	_, taken := s.users[c.Username]
	id := uuid.New()
	if !taken {
		s.users[c.Username] = user{id: id, password: c.Password}
	}
	s.mu.Unlock()

	if taken {
		writeMessage(w, http.StatusConflict, MsgUsernameTaken)
		return
	}
	zctx.From(r.Context()).Info("User registered",
		zap.String("username", c.Username),
		zap.Stringer("user_id", id),
	)
	writeMessage(w, http.StatusCreated, MsgRegistered)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	c, ok := readCredentials(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	u, found := s.users[c.Username]
	s.mu.Unlock()

	if !found || u.password != c.Password {
		writeMessage(w, http.StatusUnauthorized, MsgInvalidLogin)
		return
	}
	writeMessage(w, http.StatusOK, MsgLoggedIn)
}

func readCredentials(w http.ResponseWriter, r *http.Request) (auth.Credentials, bool) {
	c, err := decodeCredentials(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return c, false
	}
	if c.Username == "" || c.Password == "" {
		writeMessage(w, http.StatusBadRequest, MsgMissingFields)
		return c, false
	}
	return c, true
}

func decodeCredentials(body io.Reader) (auth.Credentials, error) {
	var c auth.Credentials
	err := jx.Decode(io.LimitReader(body, 64<<10), 512).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "username":
			c.Username, err = d.Str()
		case "password":
			c.Password, err = d.Str()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return c, errors.Wrap(err, "decode credentials")
	}
	return c, nil
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	write(w, code, e.Bytes())
}

func write(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
