// Package storefront holds the single-user storefront state machine.
//
// State is an immutable value. Every change goes through Reduce, which maps
// the current State and an Action to the next State without side effects.
// Network calls and timers live in the store package and report their
// results back as actions.
package storefront

import "github.com/xenking/storefront/internal/domain/product"

// CatalogStatus tracks the one-shot catalog load.
type CatalogStatus uint8

const (
	// CatalogPending means the initial load has not finished.
	CatalogPending CatalogStatus = iota
	// CatalogReady means a product list was received (possibly empty).
	CatalogReady
	// CatalogFailed means the load failed; the product list stays empty.
	CatalogFailed
)

func (s CatalogStatus) String() string {
	switch s {
	case CatalogPending:
		return "pending"
	case CatalogReady:
		return "ready"
	case CatalogFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the authentication part of the state. Username and Password
// are the form inputs in progress.
type Session struct {
	LoggedIn bool
	Username string
	Password string
	// Feedback is the last message from a register or login attempt.
	Feedback string
}

// OrderMessage is the post-checkout notice. Version identifies the notice
// so that only its own expiry clears it.
type OrderMessage struct {
	Text    string
	Version uint64
}

// State is the complete storefront state.
type State struct {
	Page     Page
	Session  Session
	Products []product.Product
	Catalog  CatalogStatus
	Cart     Cart
	Order    OrderMessage
}

// Initial returns the state of a fresh session: home page, logged out,
// empty cart, catalog not yet loaded.
func Initial() State {
	return State{Page: PageHome}
}
