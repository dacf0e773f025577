// Package catalog loads the product list from the remote service, seeding
// it with demo data when it comes back empty.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/storefront/internal/domain/product"
)

// Loader fetches the catalog. Concurrent Load calls share one in-flight
// sequence, so an empty catalog is seeded at most once per round.
type Loader struct {
	catalog product.Catalog
	group   singleflight.Group
}

// NewLoader creates a Loader backed by the given remote catalog.
func NewLoader(catalog product.Catalog) *Loader {
	return &Loader{catalog: catalog}
}

// Load lists the products. An empty listing triggers one seed request
// followed by one re-fetch whose result is returned as is, even if still
// empty. Seed failures are logged and otherwise ignored.
//
// The shared load is detached from the caller's cancellation; remote calls
// are still bounded by the client timeout. A caller whose ctx ends returns
// early with ctx.Err() while the load keeps running for the others.
func (l *Loader) Load(ctx context.Context) ([]product.Product, error) {
	ch := l.group.DoChan("catalog", func() (any, error) {
		return l.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			zctx.From(ctx).Debug("Joined in-flight catalog load")
		}
		return res.Val.([]product.Product), nil
	}
}

func (l *Loader) load(ctx context.Context) ([]product.Product, error) {
	lg := zctx.From(ctx)

	products, err := l.catalog.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	if len(products) > 0 {
		return products, nil
	}

	lg.Info("Catalog is empty, requesting demo data")
	if err := l.catalog.SeedProducts(ctx); err != nil {
		lg.Warn("Seeding catalog failed", zap.Error(err))
	}

	products, err = l.catalog.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products after seeding")
	}
	lg.Info("Catalog re-fetched after seeding", zap.Int("count", len(products)))
	return products, nil
}
