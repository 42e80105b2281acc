package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/localstore"
	"github.com/nikolayk812/storefront-cart/internal/normalize"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/pricing"
	"github.com/nikolayk812/storefront-cart/internal/remote"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// app is everything a subcommand needs, opened from the root flags.
type app struct {
	svc     *cart.Service
	repo    port.CartRepository
	unit    currency.Unit
	logger  *zap.Logger
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("zap.ParseAtomicLevel: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = lvl

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("config.Build: %w", err)
	}

	return logger, nil
}

func openApp(ctx context.Context, cmd *cli.Command) (_ *app, err error) {
	logger, err := newLogger(cmd.String("log-level"))
	if err != nil {
		return nil, err
	}

	unit, err := currency.ParseISO(cmd.String("currency"))
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", cmd.String("currency"), err)
	}

	a := &app{
		unit:    unit,
		logger:  logger,
		closers: []func() error{func() error { _ = logger.Sync(); return nil }},
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.Close())
		}
	}()

	kv, err := localstore.OpenSQLite(ctx, cmd.String("db"))
	if err != nil {
		return nil, fmt.Errorf("localstore.OpenSQLite: %w", err)
	}
	a.closers = append(a.closers, kv.Close)

	var factory cart.RemoteCartFactory
	if url := cmd.String("database-url"); url != "" {
		pool, err := pgxpool.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })

		a.repo = repository.NewCart(pool)
		factory = func(userID uuid.UUID) port.RemoteCart {
			return remote.NewRepositoryCart(a.repo, userID)
		}
	}

	guest := localstore.NewGuestStore(kv, localstore.DefaultKey, logger)
	a.svc = cart.NewService(ctx, guest, factory, cart.WithLogger(logger))

	if user := cmd.String("user"); user != "" {
		userID, err := uuid.Parse(user)
		if err != nil {
			return nil, fmt.Errorf("user[%s] is not a valid UUID: %w", user, err)
		}
		if factory == nil {
			return nil, fmt.Errorf("--database-url is required when --user is set")
		}
		if err := a.svc.SetSession(domain.Session{UserID: userID}); err != nil {
			return nil, fmt.Errorf("svc.SetSession: %w", err)
		}
	}

	return a, nil
}

// withApp opens the app, runs fn and prints the resulting cart.
func withApp(fn func(ctx context.Context, cmd *cli.Command, a *app) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, a.Close())
		}()

		if err := fn(ctx, cmd, a); err != nil {
			return err
		}

		return printCart(ctx, cmd.Root().Writer, a)
	}
}

func printCart(ctx context.Context, w io.Writer, a *app) error {
	c, err := a.svc.Cart(ctx)
	if err != nil {
		return fmt.Errorf("svc.Cart: %w", err)
	}

	for _, line := range c.Items {
		view := pricing.ViewOf(line)
		mode := "buy"
		if !line.Purchase {
			mode = fmt.Sprintf("rent %dd", line.Days())
		}
		fmt.Fprintf(w, "%-24s x%-4d %-10s %s %s\n",
			line.ItemRef, line.Quantity, mode, a.unit, pricing.LineTotal(view).StringFixed(2))
	}

	fmt.Fprintf(w, "items: %d  total: %s %s\n",
		pricing.ItemCount(c.Items), a.unit, pricing.CartTotal(c.Items).StringFixed(2))

	return nil
}

func parseAmount(cmd *cli.Command, name string) (decimal.Decimal, error) {
	raw := cmd.String(name)
	if raw == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s[%s] is not a number: %w", name, raw, err)
	}

	return amount, nil
}

func addAction(ctx context.Context, cmd *cli.Command, a *app) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("item ref is required")
	}

	price, err := parseAmount(cmd, "price")
	if err != nil {
		return err
	}
	rentalPrice, err := parseAmount(cmd, "rental-price")
	if err != nil {
		return err
	}

	purchase := !cmd.Bool("rent")
	in := normalize.ProductInput{
		ID:          domain.ItemRef(ref),
		Price:       price,
		RentalPrice: rentalPrice,
		Quantity:    int(cmd.Int("quantity")),
		Purchase:    &purchase,
	}
	if !purchase {
		in.RentalPeriod = &domain.RentalPeriod{Days: int(cmd.Int("days"))}
	}

	return a.svc.AddLine(ctx, in)
}

func removeAction(ctx context.Context, cmd *cli.Command, a *app) error {
	return a.svc.RemoveLine(ctx, domain.ItemRef(cmd.Args().First()), !cmd.Bool("rent"))
}

func setQuantityAction(ctx context.Context, cmd *cli.Command, a *app) error {
	return a.svc.SetQuantity(ctx, domain.ItemRef(cmd.Args().First()), int(cmd.Int("quantity")), !cmd.Bool("rent"))
}

func clearAction(ctx context.Context, _ *cli.Command, a *app) error {
	return a.svc.Clear(ctx)
}

func showAction(context.Context, *cli.Command, *app) error {
	return nil
}

// itemAction writes a catalog item that signed-in carts are priced from.
func itemAction(ctx context.Context, cmd *cli.Command, a *app) error {
	if a.repo == nil {
		return fmt.Errorf("--database-url is required to manage catalog items")
	}

	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("item ref is required")
	}

	price, err := parseAmount(cmd, "price")
	if err != nil {
		return err
	}
	rentalPrice, err := parseAmount(cmd, "rental-price")
	if err != nil {
		return err
	}

	name := cmd.String("name")
	if name == "" {
		name = ref
	}

	err = a.repo.UpsertItem(ctx, domain.Item{
		Ref:         domain.ItemRef(ref),
		Name:        name,
		Price:       domain.Money{Amount: price, Currency: a.unit},
		RentalPrice: domain.Money{Amount: rentalPrice, Currency: a.unit},
	})
	if err != nil {
		return fmt.Errorf("repo.UpsertItem: %w", err)
	}

	a.logger.Info("catalog item saved", zap.String("item_ref", ref), zap.String("price", price.String()))

	return nil
}

func modeFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "rent",
		Usage: "target the rental line instead of the purchase line",
	}
}

func priceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "price",
			Usage: "unit purchase price",
		},
		&cli.StringFlag{
			Name:  "rental-price",
			Usage: "unit rental price per day",
		},
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "cartctl",
		Usage: "inspect and edit the shopping cart",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Value:   "cart.db",
				Usage:   "SQLite file holding the guest cart",
				Sources: cli.EnvVars("CART_DB"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres URL of the remote cart service",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "user",
				Usage:   "signed-in user UUID; empty for a guest",
				Sources: cli.EnvVars("CART_USER"),
			},
			&cli.StringFlag{
				Name:    "currency",
				Value:   "USD",
				Usage:   "ISO 4217 currency of prices",
				Sources: cli.EnvVars("CART_CURRENCY"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "add an item to the cart",
				ArgsUsage: "<item-ref>",
				Flags: append(priceFlags(),
					modeFlag(),
					&cli.IntFlag{
						Name:  "quantity",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "days",
						Value: 1,
						Usage: "rental length, used with --rent",
					},
				),
				Action: withApp(addAction),
			},
			{
				Name:      "remove",
				Usage:     "remove a line",
				ArgsUsage: "<item-ref>",
				Flags:     []cli.Flag{modeFlag()},
				Action:    withApp(removeAction),
			},
			{
				Name:      "set-qty",
				Usage:     "overwrite the quantity of a line",
				ArgsUsage: "<item-ref>",
				Flags: []cli.Flag{
					modeFlag(),
					&cli.IntFlag{
						Name:     "quantity",
						Required: true,
					},
				},
				Action: withApp(setQuantityAction),
			},
			{
				Name:   "clear",
				Usage:  "empty the cart",
				Action: withApp(clearAction),
			},
			{
				Name:   "show",
				Usage:  "print the cart",
				Action: withApp(showAction),
			},
			{
				Name:      "item",
				Usage:     "create or update a catalog item",
				ArgsUsage: "<item-ref>",
				Flags: append(priceFlags(),
					&cli.StringFlag{
						Name: "name",
					},
				),
				Action: withApp(itemAction),
			},
		},
	}
}

func run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return newCommand().Run(ctx, args)
}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cartctl: %v\n", err)
		os.Exit(1)
	}
}
