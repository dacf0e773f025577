package storefront

import "github.com/go-faster/errors"

// ErrUnknownPage is returned by ParsePage for names outside the page set.
var ErrUnknownPage = errors.New("unknown page")

// Page selects the active view.
type Page string

// Pages of the storefront.
const (
	PageHome     Page = "home"
	PageRegister Page = "register"
	PageLogin    Page = "login"
	PageProducts Page = "products"
	PageCart     Page = "cart"
)

// Valid reports whether p is one of the known pages.
func (p Page) Valid() bool {
	switch p {
	case PageHome, PageRegister, PageLogin, PageProducts, PageCart:
		return true
	default:
		return false
	}
}

// ParsePage converts a page name into a Page.
func ParsePage(s string) (Page, error) {
	p := Page(s)
	if !p.Valid() {
		return "", errors.Wrapf(ErrUnknownPage, "%q", s)
	}
	return p, nil
}

// NavItem is a single entry of the navigation menu. Logout entries carry no
// page and trigger the logout action instead.
type NavItem struct {
	Label  string
	Page   Page
	Logout bool
}

// NavItems returns the menu offered for s. Register and Login are hidden
// once logged in; hiding does not block programmatic navigation.
func NavItems(s State) []NavItem {
	items := []NavItem{
		{Label: "Home", Page: PageHome},
		{Label: "Products", Page: PageProducts},
		{Label: "Cart", Page: PageCart},
	}
	if s.Session.LoggedIn {
		return append(items, NavItem{Label: "Logout", Logout: true})
	}
	return append(items,
		NavItem{Label: "Register", Page: PageRegister},
		NavItem{Label: "Login", Page: PageLogin},
	)
}
