package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/env"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/checkout"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/gueststore"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/session"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/syncer"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/wishlist"
	"go.uber.org/multierr"
)

// app holds the wired storefront components for one CLI invocation.
type app struct {
	out      io.Writer
	logg     *logger.Logger
	client   *storefront.Client
	creds    *gueststore.Credentials
	cart     *cart.Service
	wishlist *wishlist.Service
	session  *session.Controller
	checkout *checkout.Orchestrator
}

// printRedirector shows the payment URL instead of opening a browser.
type printRedirector struct {
	out io.Writer
}

func (p printRedirector) Redirect(_ context.Context, url string) error {
	_, err := fmt.Fprintf(p.out, "continue to payment: %s\n", url)
	return err
}

func newApp(cfg *config.StorefrontConfig, logg *logger.Logger, store gueststore.Storage, out io.Writer) (*app, error) {
	rules, err := pricing.RulesFromConfig(cfg.Checkout)
	if err != nil {
		return nil, err
	}

	creds := gueststore.NewCredentials(store)
	opts := []storefront.Option{storefront.WithTokenSource(creds), storefront.WithLogger(logg)}
	if timeout := env.GetDuration("SHOP_STOREFRONT_TIMEOUT", 0); timeout > 0 {
		opts = append(opts, storefront.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	client, err := storefront.NewClient(cfg.APIURL, opts...)
	if err != nil {
		return nil, err
	}

	guest := gueststore.NewAdapter(store, logg)
	gate := session.NewGate()
	carts := cart.NewService(client, guest, gate, logg)
	wishlists := wishlist.NewService(client, guest, gate, logg)
	sync := syncer.New(client, guest, carts, wishlists, logg, syncer.WithConcurrency(cfg.SyncParallel))

	loadGuest := session.LoaderFunc(func(ctx context.Context) error {
		_, cartErr := carts.Fetch(ctx)
		_, wishlistErr := wishlists.Fetch(ctx)
		return multierr.Combine(cartErr, wishlistErr)
	})

	return &app{
		out:      out,
		logg:     logg,
		client:   client,
		creds:    creds,
		cart:     carts,
		wishlist: wishlists,
		session:  session.NewController(client, creds, sync, loadGuest, logg, session.WithGate(gate)),
		checkout: checkout.NewOrchestrator(client, carts, rules, printRedirector{out: out}, logg),
	}, nil
}
