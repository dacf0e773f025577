package storefront

import "github.com/xenking/storefront/internal/domain/product"

// Action is a discrete event applied by Reduce.
type Action interface {
	// Name identifies the action kind in logs and metrics.
	Name() string
	action()
}

// AuthKind distinguishes registration from login.
type AuthKind uint8

const (
	AuthRegister AuthKind = iota + 1
	AuthLogin
)

func (k AuthKind) String() string {
	switch k {
	case AuthRegister:
		return "register"
	case AuthLogin:
		return "login"
	default:
		return "unknown"
	}
}

// FailureFeedback is shown when the remote service could not be reached
// or returned an unusable answer.
func (k AuthKind) FailureFeedback() string {
	if k == AuthRegister {
		return "Error during registration. Please try again."
	}
	return "Error during login. Please try again."
}

type (
	// Navigate switches the active page.
	Navigate struct{ Page Page }

	// SetCredentials stores the form input verbatim.
	SetCredentials struct{ Username, Password string }

	// AuthStarted clears feedback before a new attempt.
	AuthStarted struct{ Kind AuthKind }

	// AuthAccepted is a successful register or login answer.
	AuthAccepted struct {
		Kind    AuthKind
		Message string
	}

	// AuthRejected is a refused register or login answer.
	AuthRejected struct {
		Kind    AuthKind
		Message string
	}

	// AuthFailed is a register or login attempt without a usable answer.
	AuthFailed struct{ Kind AuthKind }

	// Logout ends the session locally.
	Logout struct{}

	// AddToCart adds one unit of Product.
	AddToCart struct{ Product product.Product }

	// ClearCart empties the cart.
	ClearCart struct{}

	// OrderPlaced shows the confirmation and empties the cart.
	OrderPlaced struct{}

	// OrderNoticeExpired clears the notice if it is still at Version.
	OrderNoticeExpired struct{ Version uint64 }

	// CatalogLoaded replaces the product list.
	CatalogLoaded struct{ Products []product.Product }

	// CatalogLoadFailed records a failed catalog load.
	CatalogLoadFailed struct{}
)

func (Navigate) Name() string           { return "navigate" }
func (SetCredentials) Name() string     { return "set_credentials" }
func (AuthStarted) Name() string        { return "auth_started" }
func (AuthAccepted) Name() string       { return "auth_accepted" }
func (AuthRejected) Name() string       { return "auth_rejected" }
func (AuthFailed) Name() string         { return "auth_failed" }
func (Logout) Name() string             { return "logout" }
func (AddToCart) Name() string          { return "add_to_cart" }
func (ClearCart) Name() string          { return "clear_cart" }
func (OrderPlaced) Name() string        { return "order_placed" }
func (OrderNoticeExpired) Name() string { return "order_notice_expired" }
func (CatalogLoaded) Name() string      { return "catalog_loaded" }
func (CatalogLoadFailed) Name() string  { return "catalog_load_failed" }

func (Navigate) action()           {}
func (SetCredentials) action()     {}
func (AuthStarted) action()        {}
func (AuthAccepted) action()       {}
func (AuthRejected) action()       {}
func (AuthFailed) action()         {}
func (Logout) action()             {}
func (AddToCart) action()          {}
func (ClearCart) action()          {}
func (OrderPlaced) action()        {}
func (OrderNoticeExpired) action() {}
func (CatalogLoaded) action()      {}
func (CatalogLoadFailed) action()  {}
