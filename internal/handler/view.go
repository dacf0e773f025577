package handler

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/storefront"
)

// EmptyCartMessage is shown instead of cart lines when the cart is empty.
const EmptyCartMessage = "Your cart is empty."

// Home is the static content of the home page.
type Home struct {
	Title    string
	Subtitle string
	Deals    []string
}

// DefaultHome is the home page content.
var DefaultHome = Home{
	Title:    "Welcome to Our Store",
	Subtitle: "Your one-stop shop for everything you need.",
	Deals: []string{
		"50% off on all headphones!",
		"Buy 1 Get 1 Free on Shirts",
		"Free Shipping on all orders!",
	},
}

// View is the projection of the storefront state returned to clients.
// The pending password is never included.
type View struct {
	Page     storefront.Page
	Nav      []storefront.NavItem
	LoggedIn bool
	Username string
	Feedback string
	Catalog  storefront.CatalogStatus
	Products []product.Product
	Cart     storefront.Cart
	Total    decimal.Decimal
	Order    string
	Home     *Home
}

// Project builds the view of s.
func Project(s storefront.State) View {
	v := View{
		Page:     s.Page,
		Nav:      storefront.NavItems(s),
		LoggedIn: s.Session.LoggedIn,
		Username: s.Session.Username,
		Feedback: s.Session.Feedback,
		Catalog:  s.Catalog,
		Products: s.Products,
		Cart:     s.Cart,
		Total:    s.Cart.Total(),
		Order:    s.Order.Text,
	}
	if s.Page == storefront.PageHome {
		home := DefaultHome
		v.Home = &home
	}
	return v
}

// Encode writes v as JSON.
func (v View) Encode(e *jx.Encoder) {
	e.ObjStart()

	e.FieldStart("page")
	e.Str(string(v.Page))

	e.FieldStart("nav")
	e.ArrStart()
	for _, item := range v.Nav {
		e.ObjStart()
		e.FieldStart("label")
		e.Str(item.Label)
		if item.Logout {
			e.FieldStart("logout")
			e.Bool(true)
		} else {
			e.FieldStart("page")
			e.Str(string(item.Page))
		}
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("session")
	e.ObjStart()
	e.FieldStart("loggedIn")
	e.Bool(v.LoggedIn)
	e.FieldStart("username")
	e.Str(v.Username)
	e.FieldStart("feedback")
	e.Str(v.Feedback)
	e.ObjEnd()

	e.FieldStart("catalog")
	e.ObjStart()
	e.FieldStart("status")
	e.Str(v.Catalog.String())
	e.FieldStart("products")
	encodeProducts(e, v.Products)
	e.ObjEnd()

	e.FieldStart("cart")
	e.ObjStart()
	e.FieldStart("lines")
	e.ArrStart()
	for _, l := range v.Cart {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(l.Product.ID)
		e.FieldStart("name")
		e.Str(l.Product.Name)
		encodeMoney(e, "price", l.Product.Price)
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		encodeMoney(e, "subtotal", l.Subtotal())
		e.ObjEnd()
	}
	e.ArrEnd()
	encodeMoney(e, "total", v.Total)
	if len(v.Cart) == 0 {
		e.FieldStart("emptyMessage")
		e.Str(EmptyCartMessage)
	}
	e.ObjEnd()

	e.FieldStart("orderMessage")
	e.Str(v.Order)

	if v.Home != nil {
		e.FieldStart("home")
		e.ObjStart()
		e.FieldStart("title")
		e.Str(v.Home.Title)
		e.FieldStart("subtitle")
		e.Str(v.Home.Subtitle)
		e.FieldStart("deals")
		e.ArrStart()
		for _, d := range v.Home.Deals {
			e.Str(d)
		}
		e.ArrEnd()
		e.ObjEnd()
	}

	e.ObjEnd()
}

func encodeProducts(e *jx.Encoder, products []product.Product) {
	e.ArrStart()
	for _, p := range products {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(p.ID)
		e.FieldStart("name")
		e.Str(p.Name)
		e.FieldStart("description")
		e.Str(p.Description)
		encodeMoney(e, "price", p.Price)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// encodeMoney writes the exact amount as a JSON number under name and the
// two-decimal display string under name+"Text".
func encodeMoney(e *jx.Encoder, name string, d decimal.Decimal) {
	e.FieldStart(name)
	e.Raw([]byte(d.String()))
	e.FieldStart(name + "Text")
	e.Str(d.StringFixed(2))
}
