package storefront

import (
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// Policy holds the switchable transition rules.
type Policy struct {
	// RequireLogin redirects navigation to the products and cart pages to
	// the login page while logged out.
	RequireLogin bool
}

// Reduce applies a under the default Policy.
func Reduce(s State, a Action) State {
	return Policy{}.Reduce(s, a)
}

// Reduce returns the state following s after a. Unknown actions and
// invalid inputs leave s unchanged.
func (p Policy) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Navigate:
		if !a.Page.Valid() {
			return s
		}
		s.Page = p.guard(s, a.Page)

	case SetCredentials:
		s.Session.Username = a.Username
		s.Session.Password = a.Password

	case AuthStarted:
		s.Session.Feedback = ""

	case AuthAccepted:
		s.Session.Feedback = a.Message
		s.Session.Username = ""
		s.Session.Password = ""
		switch a.Kind {
		case AuthRegister:
			s.Page = PageLogin
		case AuthLogin:
			s.Session.LoggedIn = true
			s.Page = PageProducts
		}

	case AuthRejected:
		s.Session.Feedback = a.Message

	case AuthFailed:
		s.Session.Feedback = a.Kind.FailureFeedback()

	case Logout:
		s.Session.LoggedIn = false
		s.Cart = nil
		s.Page = PageHome

	case AddToCart:
		s.Cart = s.Cart.Add(a.Product)

	case ClearCart:
		s.Cart = nil

	case OrderPlaced:
		if len(s.Cart) == 0 {
			return s
		}
		s.Order = OrderMessage{Text: order.Confirmation, Version: s.Order.Version + 1}
		s.Cart = nil

	case OrderNoticeExpired:
		if a.Version == s.Order.Version {
			s.Order.Text = ""
		}

	case CatalogLoaded:
		products := make([]product.Product, len(a.Products))
		copy(products, a.Products)
		s.Products = products
		s.Catalog = CatalogReady

	case CatalogLoadFailed:
		s.Products = nil
		s.Catalog = CatalogFailed
	}
	return s
}

func (p Policy) guard(s State, to Page) Page {
	if !p.RequireLogin || s.Session.LoggedIn {
		return to
	}
	if to == PageProducts || to == PageCart {
		return PageLogin
	}
	return to
}
