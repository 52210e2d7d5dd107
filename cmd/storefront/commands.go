package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/env"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/pricing"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/cart"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/storefront/checkout"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/types"
)

var errUsage = errors.New("usage")

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"products": cmdProducts,
	"add":      cmdAdd,
	"update":   cmdUpdate,
	"remove":   cmdRemove,
	"cart":     cmdCart,
	"wishlist": cmdWishlist,
	"toggle":   cmdToggle,
	"login":    cmdLogin,
	"logout":   cmdLogout,
	"checkout": cmdCheckout,
}

func cmdProducts(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.String("category", "", "category slug")
	occasion := fs.String("occasion", "", "occasion slug")
	q := fs.String("q", "", "search text")
	limit := fs.Int("limit", 20, "page size")
	cursor := fs.String("cursor", "", "page cursor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	query := url.Values{}
	for k, v := range map[string]string{"category": *category, "occasion": *occasion, "q": *q, "cursor": *cursor} {
		if v != "" {
			query.Set(k, v)
		}
	}
	query.Set("limit", strconv.Itoa(*limit))

	page, err := a.client.ListProducts(ctx, query)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME\tPRICE\tSTOCK")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Slug, p.Name, storefront.FormatPrice(p.Snapshot().Price), p.Stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if page.NextCursor != "" {
		fmt.Fprintf(a.out, "next page: -cursor %s\n", page.NextCursor)
	}
	return nil
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: add <product id or slug> [quantity]", errUsage)
	}
	quantity := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		quantity = n
	}
	product, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	snapshot := product.Snapshot()
	c, err := a.cart.Add(ctx, product.ID, quantity, &snapshot)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s\n", product.Name)
	return printCart(a, c)
}

func cmdUpdate(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: update <cart item id> <quantity>", errUsage)
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	c, err := a.cart.UpdateQuantity(ctx, args[0], quantity)
	if err != nil {
		return err
	}
	return printCart(a, c)
}

func cmdRemove(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove <cart item id>", errUsage)
	}
	c, err := a.cart.Remove(ctx, args[0])
	if err != nil {
		return err
	}
	return printCart(a, c)
}

func cmdCart(ctx context.Context, a *app, _ []string) error {
	q, err := a.checkout.Quote(ctx)
	if err != nil {
		return err
	}
	if err := printCart(a, q.Cart); err != nil {
		return err
	}
	return printTotals(a, q.Totals)
}

func cmdWishlist(ctx context.Context, a *app, _ []string) error {
	items, err := a.wishlist.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "wishlist is empty")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.Name, storefront.FormatPrice(it.Price))
	}
	return tw.Flush()
}

func cmdToggle(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: toggle <product id or slug>", errUsage)
	}
	product, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	added, err := a.wishlist.Toggle(ctx, product.Snapshot())
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(a.out, "added %s to wishlist\n", product.Name)
	} else {
		fmt.Fprintf(a.out, "removed %s from wishlist\n", product.Name)
	}
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: login <email> (password from SHOP_STOREFRONT_PASSWORD)", errUsage)
	}
	password := env.Get("SHOP_STOREFRONT_PASSWORD", "")
	if password == "" {
		return errors.New("SHOP_STOREFRONT_PASSWORD is not set")
	}
	profile, err := a.session.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s\n", profile.Email)

	report := a.session.LastSync()
	if report.CartAdded+report.WishlistAdded > 0 {
		fmt.Fprintf(a.out, "moved %d cart and %d wishlist items to your account\n", report.CartAdded, report.WishlistAdded)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(a.out, "could not move %s %s (x%d): %v\n", f.Kind, f.ProductID, f.Quantity, f.Err)
	}
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func cmdCheckout(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	detailsPath := fs.String("details", "", "JSON file with billing, shipping and contactNumber")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *detailsPath == "" {
		return fmt.Errorf("%w: checkout -details <file>", errUsage)
	}
	raw, err := os.ReadFile(*detailsPath)
	if err != nil {
		return err
	}
	var form struct {
		Billing       types.Address `json:"billing"`
		Shipping      types.Address `json:"shipping"`
		ContactNumber string        `json:"contactNumber"`
	}
	if err := json.Unmarshal(raw, &form); err != nil {
		return fmt.Errorf("parse details: %w", err)
	}

	res, err := a.checkout.Submit(ctx, checkout.Details{
		Billing:       form.Billing,
		Shipping:      form.Shipping,
		ContactNumber: form.ContactNumber,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s created\n", res.OrderID)
	return nil
}

func printCart(a *app, c cart.Cart) error {
	if len(c.Items) == 0 {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tNAME\tPRICE\tQTY")
	for _, it := range c.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", it.CartItemID, it.Name, storefront.FormatPrice(it.Price), it.Quantity)
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%s\n", storefront.FormatPrice(c.Total))
	return tw.Flush()
}

func printTotals(a *app, t pricing.Totals) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "subtotal\t%s\n", t.Subtotal.StringFixed(2))
	fmt.Fprintf(tw, "shipping\t%s\n", t.Shipping.StringFixed(2))
	fmt.Fprintf(tw, "tax\t%s\n", t.Tax.StringFixed(2))
	fmt.Fprintf(tw, "total\t%s\n", t.Total.StringFixed(2))
	return tw.Flush()
}
