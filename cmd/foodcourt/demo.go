package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/fatih/color"

	"github.com/nextgenmall/foodcourt/internal/cart"
	"github.com/nextgenmall/foodcourt/internal/catalog"
	"github.com/nextgenmall/foodcourt/internal/kvstore"
	"github.com/nextgenmall/foodcourt/internal/menu"
	"github.com/nextgenmall/foodcourt/internal/order"
	"github.com/nextgenmall/foodcourt/internal/session"
	"github.com/nextgenmall/foodcourt/internal/tables"
	"github.com/nextgenmall/foodcourt/pkg"
	"github.com/nextgenmall/foodcourt/pkg/enums/orderstatus"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	ok      = color.New(color.FgGreen)
	notice  = color.New(color.FgYellow)
	blocked = color.New(color.FgRed)
)

type demoApp struct {
	catalog *catalog.Catalog
	session *session.Store
	cart    *cart.Store
	badge   *cart.Badge
	orders  *order.Manager
	tables  *tables.Manager
	menu    *menu.Manager
}

func buildApp(ctx context.Context, config *apt.Config, logger apt.Logger) (*demoApp, func(), error) {
	cleanup := func() {}

	var kv kvstore.Store
	if path := config.GetStringOrDef("store.path", ""); path != "" {
		kv = kvstore.NewFileStore(path, logger)
	} else {
		kv = kvstore.NewMemoryStore()
	}

	var publisher events.Publisher
	var subscriber events.Subscriber
	if natsURL := config.GetStringOrDef("nats.url", ""); natsURL != "" {
		pub, err := pkg.NewNATSPublisher(natsURL)
		if err != nil {
			return nil, cleanup, err
		}
		sub, err := pkg.NewNATSSubscriber(natsURL, logger)
		if err != nil {
			_ = pub.Close()
			return nil, cleanup, err
		}
		publisher, subscriber = pub, sub
		cleanup = func() {
			_ = sub.Close()
			_ = pub.Close()
		}
	} else {
		broker := pkg.NewLocalBroker(logger)
		publisher, subscriber = broker, broker
	}

	cat, err := catalog.Load(seedFS, logger)
	if err != nil {
		return nil, cleanup, err
	}

	cartStore := cart.NewStore(kv, publisher, logger)
	badge := cart.NewBadge(logger)
	if err := badge.Start(ctx, subscriber); err != nil {
		return nil, cleanup, err
	}

	orders := order.NewManager(publisher, logger)
	if err := order.ApplyDemoSeeds(ctx, orders, logger); err != nil {
		return nil, cleanup, err
	}

	return &demoApp{
		catalog: cat,
		session: session.NewStore(kv, cartStore, logger),
		cart:    cartStore,
		badge:   badge,
		orders:  orders,
		tables:  tables.NewManager(cat, publisher, logger),
		menu:    menu.NewManager(cat, logger),
	}, cleanup, nil
}

func runDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	app, cleanup, err := buildApp(ctx, config, logger)
	defer cleanup()
	if err != nil {
		return err
	}

	confirm := bufio.NewReader(os.Stdin)

	if err := customerFlow(ctx, app); err != nil {
		return err
	}
	if err := ownerFlow(ctx, app, confirm); err != nil {
		return err
	}
	return wrapUp(ctx, app)
}

func customerFlow(ctx context.Context, app *demoApp) error {
	heading.Println("== NextGen Mall Food Court ==")

	if err := app.session.Login(session.RoleCustomer, "Alex"); err != nil {
		return err
	}
	ok.Printf("Hey, %s!\n\n", app.session.DisplayName())

	heading.Println("-- Outlets --")
	for _, r := range app.catalog.Restaurants() {
		fmt.Printf("  %s (%s cuisine)\n", r.Name, r.Cuisine)
	}
	heading.Println("\n-- Popular dishes --")
	for _, d := range app.catalog.PopularDishes() {
		fmt.Printf("  %s - KSh %.0f\n", d.Name, d.Price)
	}

	heading.Println("\n-- Ordering --")
	chicken, err := app.catalog.Dish("1", "d1")
	if err != nil {
		return err
	}
	rice, err := app.catalog.Dish("1", "d4")
	if err != nil {
		return err
	}

	for _, d := range []*catalog.Dish{chicken, chicken, rice} {
		if err := app.cart.AddItem(ctx, d.ID, d.Price, d.Name); err != nil {
			return err
		}
		ok.Printf("Added %s to cart (badge: %d)\n", d.Name, app.badge.Count())
	}
	fmt.Printf("Cart total: KSh %.0f\n", app.cart.TotalAmount())

	placed, err := app.orders.Checkout(ctx, app.session.DisplayName(), app.cart, "")
	if err != nil {
		return err
	}
	ok.Printf("Order #%d placed! %s (KSh %.0f)\n", placed.Number, placed.Items, placed.Total)
	fmt.Printf("Cart badge after checkout: %d\n\n", app.badge.Count())
	return nil
}

func ownerFlow(ctx context.Context, app *demoApp, confirm *bufio.Reader) error {
	owner, err := app.catalog.Owner("1")
	if err != nil {
		return err
	}
	restaurant, err := app.catalog.RestaurantFor(owner.ID)
	if err != nil {
		return err
	}

	if err := app.session.Login(session.RoleOwner, owner.Name); err != nil {
		return err
	}
	heading.Printf("== Owner dashboard: %s ==\n", restaurant.Name)
	fmt.Printf("Total revenue: KSh %.0f\n\n", owner.TotalRevenue)

	heading.Println("-- Recent orders --")
	for _, o := range app.orders.List() {
		fmt.Printf("  #%d %s - %s - KSh %.0f [%s] %s\n",
			o.Number, o.Customer, o.Items, o.Total, o.Status, o.TimeLabel())
	}
	fmt.Printf("Active orders: %d\n\n", app.orders.ActiveCount())

	for _, o := range app.orders.List() {
		if o.Status != orderstatus.Statuses.Preparing.Code() {
			continue
		}
		if err := app.orders.SetStatus(ctx, o.ID, orderstatus.Statuses.Ready.Code()); err != nil {
			return err
		}
		ok.Printf("Order #%d marked ready\n", o.Number)
		break
	}

	for _, o := range app.orders.List() {
		if o.Status != orderstatus.Statuses.Delivered.Code() {
			continue
		}
		if promptConfirm(confirm, os.Stdout, fmt.Sprintf("Delete delivered order #%d?", o.Number)) {
			if err := app.orders.Delete(ctx, o.ID); err != nil {
				return err
			}
			ok.Printf("Order #%d deleted\n", o.Number)
		} else {
			notice.Println("Delete cancelled, order kept")
		}
		break
	}

	heading.Println("\n-- Tables --")
	for _, t := range app.tables.ListForOwner(owner.ID) {
		fmt.Printf("  T%s (cap %d): %s\n", t.Number, t.Capacity, t.Status)
	}

	first := app.tables.ListForOwner(owner.ID)[0]
	status, err := app.tables.Toggle(ctx, first.ID)
	if err != nil {
		return err
	}
	ok.Printf("Table %s status changed to: %s\n", first.Number, status)

	available := app.tables.AvailableForOwner(owner.ID)
	if len(available) > 0 {
		res, err := app.tables.Reserve(ctx, tables.ReservationRequest{
			TableID:       available[0].ID,
			CustomerName:  "Grace Wanjiku",
			CustomerPhone: "+254 700 000 000",
			Date:          "2026-09-01",
			Time:          "19:00",
		})
		if err != nil {
			return err
		}
		ok.Printf("Table %s reserved for %s (%s %s)\n",
			res.TableNumber, res.CustomerName, res.Date, res.Time)
	}

	// A reservation missing required fields is blocked with no change.
	if _, err := app.tables.Reserve(ctx, tables.ReservationRequest{TableID: first.ID}); err != nil {
		var verr *tables.ValidationError
		if errors.As(err, &verr) {
			blocked.Printf("Reservation blocked: %s\n", strings.Join(verr.Fields, "; "))
		} else {
			return err
		}
	}

	heading.Println("\n-- Menu management --")
	dish, err := app.menu.AddDish(restaurant.ID, "Ugali Platter", "450", "Ugali with sukuma wiki and grilled tomato")
	if err != nil {
		return err
	}
	ok.Printf("New dish added: %s - KSh %.0f\n", dish.Name, dish.Price)

	if _, err := app.menu.AddDish(restaurant.ID, "Mystery Dish", "500", ""); err != nil {
		var verr *menu.ValidationError
		if errors.As(err, &verr) {
			blocked.Printf("Add dish blocked: %s\n", strings.Join(verr.Fields, "; "))
		} else {
			return err
		}
	}

	applied, err := app.menu.UpdatePrices(restaurant.ID, map[string]string{"d1": "1250", "d2": ""})
	if err != nil {
		return err
	}
	ok.Printf("Price updates saved: %d\n", applied)

	if _, err := app.menu.UpdatePrices(restaurant.ID, map[string]string{"d1": ""}); errors.Is(err, menu.ErrNoUpdates) {
		notice.Println("No price updates to save")
	}
	return nil
}

func wrapUp(ctx context.Context, app *demoApp) error {
	heading.Println("\n-- Wrapping up --")

	dark, err := app.session.ToggleDarkMode()
	if err != nil {
		return err
	}
	fmt.Printf("Dark mode: %t\n", dark)

	if err := app.session.Logout(ctx); err != nil {
		return err
	}
	ok.Printf("Logged out (cart badge: %d, dark mode kept: %t)\n",
		app.badge.Count(), app.session.DarkMode())
	return nil
}

func promptConfirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := in.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
