package storefront

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// --- Helpers ---

func newTestProduct(id, name, price string) product.Product {
	return product.Product{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
	}
}

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func loggedInWithCart() State {
	return reduceAll(Initial(),
		AuthAccepted{Kind: AuthLogin, Message: "Login successful!"},
		AddToCart{Product: newTestProduct("p1", "Widget", "9.99")},
		AddToCart{Product: newTestProduct("p2", "Gadget", "20")},
		Navigate{Page: PageCart},
	)
}

// --- Tests ---

func TestInitial(t *testing.T) {
	s := Initial()
	assert.Equal(t, PageHome, s.Page)
	assert.False(t, s.Session.LoggedIn)
	assert.Empty(t, s.Cart)
	assert.Equal(t, CatalogPending, s.Catalog)
}

func TestReduce_Navigate(t *testing.T) {
	for _, p := range []Page{PageHome, PageRegister, PageLogin, PageProducts, PageCart} {
		s := Reduce(Initial(), Navigate{Page: p})
		assert.Equal(t, p, s.Page)
	}
}

func TestReduce_NavigateUnknownPageIgnored(t *testing.T) {
	s := Reduce(Initial(), Navigate{Page: "checkout"})
	assert.Equal(t, PageHome, s.Page)
}

func TestReduce_NavigateToAuthPagesWhileLoggedIn(t *testing.T) {
	s := reduceAll(Initial(),
		AuthAccepted{Kind: AuthLogin, Message: "Login successful!"},
		Navigate{Page: PageRegister},
	)
	assert.Equal(t, PageRegister, s.Page)
}

func TestPolicy_RequireLogin(t *testing.T) {
	p := Policy{RequireLogin: true}

	s := p.Reduce(Initial(), Navigate{Page: PageCart})
	assert.Equal(t, PageLogin, s.Page)

	s = p.Reduce(Initial(), Navigate{Page: PageProducts})
	assert.Equal(t, PageLogin, s.Page)

	s = p.Reduce(Initial(), Navigate{Page: PageRegister})
	assert.Equal(t, PageRegister, s.Page)

	s = p.Reduce(p.Reduce(Initial(), AuthAccepted{Kind: AuthLogin}), Navigate{Page: PageCart})
	assert.Equal(t, PageCart, s.Page)
}

func TestReduce_SetCredentials(t *testing.T) {
	s := Reduce(Initial(), SetCredentials{Username: " alice ", Password: ""})
	assert.Equal(t, " alice ", s.Session.Username)
	assert.Empty(t, s.Session.Password)
}

func TestReduce_AuthStartedClearsFeedback(t *testing.T) {
	s := reduceAll(Initial(),
		AuthRejected{Kind: AuthLogin, Message: "Invalid credentials"},
		AuthStarted{Kind: AuthLogin},
	)
	assert.Empty(t, s.Session.Feedback)
}

func TestReduce_LoginAccepted(t *testing.T) {
	s := reduceAll(Initial(),
		SetCredentials{Username: "alice", Password: "secret"},
		Navigate{Page: PageLogin},
		AuthStarted{Kind: AuthLogin},
		AuthAccepted{Kind: AuthLogin, Message: "Login successful!"},
	)

	assert.True(t, s.Session.LoggedIn)
	assert.Empty(t, s.Session.Username)
	assert.Empty(t, s.Session.Password)
	assert.Equal(t, "Login successful!", s.Session.Feedback)
	assert.Equal(t, PageProducts, s.Page)
}

func TestReduce_RegisterAccepted(t *testing.T) {
	s := reduceAll(Initial(),
		SetCredentials{Username: "alice", Password: "secret"},
		Navigate{Page: PageRegister},
		AuthAccepted{Kind: AuthRegister, Message: "Registration successful!"},
	)

	assert.False(t, s.Session.LoggedIn)
	assert.Empty(t, s.Session.Username)
	assert.Empty(t, s.Session.Password)
	assert.Equal(t, "Registration successful!", s.Session.Feedback)
	assert.Equal(t, PageLogin, s.Page)
}

func TestReduce_AuthRejectedKeepsCredentials(t *testing.T) {
	for _, kind := range []AuthKind{AuthRegister, AuthLogin} {
		t.Run(kind.String(), func(t *testing.T) {
			s := reduceAll(Initial(),
				Navigate{Page: PageLogin},
				SetCredentials{Username: "alice", Password: "wrong"},
				AuthRejected{Kind: kind, Message: "Invalid credentials"},
			)

			assert.False(t, s.Session.LoggedIn)
			assert.Equal(t, "alice", s.Session.Username)
			assert.Equal(t, "wrong", s.Session.Password)
			assert.Equal(t, "Invalid credentials", s.Session.Feedback)
			assert.Equal(t, PageLogin, s.Page)
		})
	}
}

func TestReduce_AuthFailedFallbackFeedback(t *testing.T) {
	s := reduceAll(Initial(),
		SetCredentials{Username: "alice", Password: "secret"},
		AuthFailed{Kind: AuthRegister},
	)
	assert.Equal(t, "Error during registration. Please try again.", s.Session.Feedback)
	assert.Equal(t, "alice", s.Session.Username)

	s = Reduce(s, AuthFailed{Kind: AuthLogin})
	assert.Equal(t, "Error during login. Please try again.", s.Session.Feedback)
	assert.False(t, s.Session.LoggedIn)
}

func TestReduce_Logout(t *testing.T) {
	states := map[string]State{
		"initial":           Initial(),
		"logged in on cart": loggedInWithCart(),
		"logged out with cart": reduceAll(Initial(),
			AddToCart{Product: newTestProduct("p1", "Widget", "1")},
			Navigate{Page: PageProducts},
		),
	}

	for name, before := range states {
		t.Run(name, func(t *testing.T) {
			s := Reduce(before, Logout{})
			assert.False(t, s.Session.LoggedIn)
			assert.Empty(t, s.Cart)
			assert.Equal(t, PageHome, s.Page)
		})
	}
}

func TestReduce_AddToCartTwice(t *testing.T) {
	p := newTestProduct("p1", "Widget", "9.99")
	s := reduceAll(Initial(), AddToCart{Product: p}, AddToCart{Product: p})

	require.Len(t, s.Cart, 1)
	assert.Equal(t, "p1", s.Cart[0].Product.ID)
	assert.Equal(t, 2, s.Cart[0].Quantity)
}

func TestReduce_AddToCartKeepsFirstSnapshot(t *testing.T) {
	s := reduceAll(Initial(),
		AddToCart{Product: newTestProduct("p1", "Widget", "9.99")},
		AddToCart{Product: newTestProduct("p1", "Renamed", "1.00")},
	)

	require.Len(t, s.Cart, 1)
	assert.Equal(t, "Widget", s.Cart[0].Product.Name)
	assert.True(t, decimal.RequireFromString("19.98").Equal(s.Cart.Total()))
}

func TestReduce_AddToCartPreservesOrder(t *testing.T) {
	s := reduceAll(Initial(),
		AddToCart{Product: newTestProduct("b", "B", "1")},
		AddToCart{Product: newTestProduct("a", "A", "1")},
		AddToCart{Product: newTestProduct("b", "B", "1")},
		AddToCart{Product: newTestProduct("c", "C", "1")},
	)

	require.Len(t, s.Cart, 3)
	assert.Equal(t, "b", s.Cart[0].Product.ID)
	assert.Equal(t, "a", s.Cart[1].Product.ID)
	assert.Equal(t, "c", s.Cart[2].Product.ID)
	assert.Equal(t, 2, s.Cart[0].Quantity)
}

func TestReduce_DoesNotMutatePreviousState(t *testing.T) {
	before := Reduce(Initial(), AddToCart{Product: newTestProduct("p1", "Widget", "1")})
	after := Reduce(before, AddToCart{Product: newTestProduct("p1", "Widget", "1")})

	assert.Equal(t, 1, before.Cart[0].Quantity)
	assert.Equal(t, 2, after.Cart[0].Quantity)
}

func TestReduce_ClearCart(t *testing.T) {
	s := Reduce(loggedInWithCart(), ClearCart{})
	assert.Empty(t, s.Cart)
	assert.True(t, s.Session.LoggedIn)
}

func TestReduce_OrderPlaced(t *testing.T) {
	s := reduceAll(Initial(),
		AddToCart{Product: newTestProduct("p1", "Widget", "10")},
		AddToCart{Product: newTestProduct("p1", "Widget", "10")},
	)
	require.True(t, decimal.NewFromInt(20).Equal(s.Cart.Total()))

	s = Reduce(s, OrderPlaced{})
	assert.Equal(t, order.Confirmation, s.Order.Text)
	assert.Equal(t, uint64(1), s.Order.Version)
	assert.Empty(t, s.Cart)

	s = Reduce(s, OrderNoticeExpired{Version: 1})
	assert.Empty(t, s.Order.Text)
}

func TestReduce_OrderPlacedEmptyCartIgnored(t *testing.T) {
	s := Reduce(Initial(), OrderPlaced{})
	assert.Empty(t, s.Order.Text)
	assert.Zero(t, s.Order.Version)
}

func TestReduce_StaleNoticeExpiryIgnored(t *testing.T) {
	p := newTestProduct("p1", "Widget", "10")
	s := reduceAll(Initial(),
		AddToCart{Product: p}, OrderPlaced{},
		AddToCart{Product: p}, OrderPlaced{},
	)
	require.Equal(t, uint64(2), s.Order.Version)

	s = Reduce(s, OrderNoticeExpired{Version: 1})
	assert.Equal(t, order.Confirmation, s.Order.Text)

	s = Reduce(s, OrderNoticeExpired{Version: 2})
	assert.Empty(t, s.Order.Text)
}

func TestReduce_CatalogLoaded(t *testing.T) {
	products := []product.Product{newTestProduct("1", "Widget", "9.99")}
	s := Reduce(Initial(), CatalogLoaded{Products: products})

	products[0].Name = "mutated"
	require.Len(t, s.Products, 1)
	assert.Equal(t, "Widget", s.Products[0].Name)
	assert.Equal(t, CatalogReady, s.Catalog)
}

func TestReduce_CatalogLoadFailed(t *testing.T) {
	s := Reduce(Initial(), CatalogLoadFailed{})
	assert.Empty(t, s.Products)
	assert.Equal(t, CatalogFailed, s.Catalog)
	assert.Equal(t, "failed", s.Catalog.String())
}
