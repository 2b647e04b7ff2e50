// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"stockflow/internal/core/id"
	"stockflow/internal/core/types"
	"stockflow/internal/domain/balance"
	"stockflow/internal/domain/ledger"
	"stockflow/internal/domain/stock"
	"stockflow/internal/infrastructure/storage/postgres"
	"stockflow/internal/infrastructure/storage/postgres/catalog_repo"
	"stockflow/internal/infrastructure/storage/postgres/ledger_repo"
	"stockflow/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	catalogIDs, err := seedCatalogs(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedTransactions(ctx, pool, log, catalogIDs); err != nil {
			log.Fatalw("failed to seed transactions", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// catalogRefs collects the ids needed to build demo transactions.
type catalogRefs struct {
	supplierID id.ID
	customerID id.ID
	productIDs []id.ID
}

func seedCatalogs(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (*catalogRefs, error) {
	refs := &catalogRefs{}

	// Categories
	categoryID, err := upsertNamed(ctx, pool, `
		INSERT INTO categories (id, name, description, status, version)
		VALUES ($1, $2, $3, 'Active', 1)
		ON CONFLICT DO NOTHING
	`, `SELECT id FROM categories WHERE name = $1`, "Electronics", "Electronic goods")
	if err != nil {
		return nil, fmt.Errorf("seed category: %w", err)
	}

	// Units
	units := []struct {
		name         string
		abbreviation string
	}{
		{"Piece", "pcs"},
		{"Kilogram", "kg"},
		{"Box", "box"},
	}
	for _, u := range units {
		if _, err := upsertNamed(ctx, pool, `
			INSERT INTO units (id, name, abbreviation, status, version)
			VALUES ($1, $2, $3, 'Active', 1)
			ON CONFLICT DO NOTHING
		`, `SELECT id FROM units WHERE name = $1`, u.name, u.abbreviation); err != nil {
			return nil, fmt.Errorf("seed unit %s: %w", u.name, err)
		}
	}

	// Warehouses
	if _, err := upsertNamed(ctx, pool, `
		INSERT INTO warehouses (id, name, location, status, version)
		VALUES ($1, $2, $3, 'Active', 1)
		ON CONFLICT DO NOTHING
	`, `SELECT id FROM warehouses WHERE name = $1`, "Main Warehouse", "Head office"); err != nil {
		return nil, fmt.Errorf("seed warehouse: %w", err)
	}

	// Partners
	refs.supplierID, err = upsertNamed(ctx, pool, `
		INSERT INTO partners (id, name, phone_number, type, balance, paid, left_amount, version)
		VALUES ($1, $2, $3, 'Supplier', 0, 0, 0, 1)
		ON CONFLICT DO NOTHING
	`, `SELECT id FROM partners WHERE name = $1`, "Acme Supplies", "+1-555-0100")
	if err != nil {
		return nil, fmt.Errorf("seed supplier: %w", err)
	}

	refs.customerID, err = upsertNamed(ctx, pool, `
		INSERT INTO partners (id, name, phone_number, type, balance, paid, left_amount, version)
		VALUES ($1, $2, $3, 'Customer', 0, 0, 0, 1)
		ON CONFLICT DO NOTHING
	`, `SELECT id FROM partners WHERE name = $1`, "Globex Retail", "+1-555-0200")
	if err != nil {
		return nil, fmt.Errorf("seed customer: %w", err)
	}

	// Products
	products := []struct {
		name         string
		sku          string
		costPrice    int64
		sellingPrice int64
	}{
		{"Wireless Mouse", "SKU-MOUSE-01", 8, 15},
		{"Mechanical Keyboard", "SKU-KEYB-01", 35, 60},
		{"USB-C Cable", "SKU-CABL-01", 2, 6},
	}
	for _, p := range products {
		productID := id.New()
		tag, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, sku, category_id, cost_price, selling_price, version)
			VALUES ($1, $2, $3, $4, $5, $6, 1)
			ON CONFLICT (sku) DO NOTHING
		`, productID, p.name, p.sku, categoryID, p.costPrice, p.sellingPrice)
		if err != nil {
			return nil, fmt.Errorf("seed product %s: %w", p.sku, err)
		}
		if tag.RowsAffected() == 0 {
			if err := pool.QueryRow(ctx,
				`SELECT id FROM products WHERE sku = $1`, p.sku,
			).Scan(&productID); err != nil {
				return nil, fmt.Errorf("fetch product %s: %w", p.sku, err)
			}
		}
		refs.productIDs = append(refs.productIDs, productID)
	}

	// Expenses
	if _, err := upsertNamed(ctx, pool, `
		INSERT INTO expenses (id, title, amount, category, date, version)
		VALUES ($1, $2, 120, 'Logistics', now(), 1)
		ON CONFLICT DO NOTHING
	`, `SELECT id FROM expenses WHERE title = $1`, "Delivery fees"); err != nil {
		return nil, fmt.Errorf("seed expense: %w", err)
	}

	log.Info("catalogs seeded")
	return refs, nil
}

// seedTransactions writes demo ledger entries through the ledger service so
// stock checks run and partner balances are recomputed exactly like in
// production.
func seedTransactions(ctx context.Context, pool *postgres.Pool, log *logger.Logger, refs *catalogRefs) error {
	var count int64
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM transactions`).Scan(&count); err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if count > 0 {
		log.Infow("transactions already present, skipping demo ledger", "count", count)
		return nil
	}

	txManager := postgres.NewTxManager(pool)
	partnerRepo := catalog_repo.NewPartnerRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	entryRepo := ledger_repo.NewEntryRepo(txManager)

	ledgerService := ledger.NewService(ledger.ServiceConfig{
		Repo:      entryRepo,
		Partners:  partnerRepo,
		Products:  productRepo,
		Stock:     stock.NewService(entryRepo, productRepo),
		Balances:  balance.NewService(entryRepo, partnerRepo),
		TxManager: txManager,
	})

	// Buy stock in first, then sell part of it.
	purchase, err := ledgerService.Create(ctx, ledger.CreateInput{
		Type:      ledger.TypePurchases,
		PartnerID: &refs.supplierID,
		Lines: []ledger.LineInput{
			{ProductID: refs.productIDs[0], Quantity: 50},
			{ProductID: refs.productIDs[1], Quantity: 20},
			{ProductID: refs.productIDs[2], Quantity: 100},
		},
		Balance: types.NewMoneyFromInt(1300),
		Paid:    types.NewMoneyFromInt(1000),
		Note:    "Opening stock",
	})
	if err != nil {
		return fmt.Errorf("seed purchase: %w", err)
	}
	log.Infow("purchase created", "serial", purchase.SerialNumber)

	sale, err := ledgerService.Create(ctx, ledger.CreateInput{
		Type:      ledger.TypeSales,
		PartnerID: &refs.customerID,
		Lines: []ledger.LineInput{
			{ProductID: refs.productIDs[0], Quantity: 5},
			{ProductID: refs.productIDs[2], Quantity: 10},
		},
		Balance: types.NewMoneyFromInt(135),
		Paid:    types.NewMoneyFromInt(135),
		Note:    "First sale",
	})
	if err != nil {
		return fmt.Errorf("seed sale: %w", err)
	}
	log.Infow("sale created", "serial", sale.SerialNumber)

	return nil
}

// upsertNamed inserts a row keyed by name (or title) and returns its id,
// reusing the existing row when one is already there.
func upsertNamed(ctx context.Context, pool *postgres.Pool, insertSQL, selectSQL, name string, extra ...any) (id.ID, error) {
	var rowID id.ID
	err := pool.QueryRow(ctx, selectSQL, name).Scan(&rowID)
	if err == nil {
		return rowID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), err
	}

	rowID = id.New()
	args := append([]any{rowID, name}, extra...)
	if _, err := pool.Exec(ctx, insertSQL, args...); err != nil {
		return id.Nil(), err
	}
	return rowID, nil
}
