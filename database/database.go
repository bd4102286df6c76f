package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"retailforecast/models"
)

// Querier is the subset of *pgxpool.Pool used to read sales records.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect sets up the database connection pool and checks that it works.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Println("✅ Successfully connected to the database")
	return pool, nil
}

// Close closes the database connection pool.
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
		log.Println("Database connection pool closed")
	}
}

// salesQuery builds the select for a possibly schema-qualified table name.
func salesQuery(table string) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return `
		SELECT order_date, COALESCE(ship_date, order_date),
		       COALESCE(category, ''), COALESCE(region, ''), COALESCE(state, ''),
		       COALESCE(segment, ''), COALESCE(sub_category, ''), COALESCE(product_name, ''),
		       COALESCE(sales, 0)::float8, COALESCE(profit, 0)::float8, COALESCE(discount, 0)::float8
		FROM ` + ident + `
		ORDER BY order_date`
}

// LoadSalesRecords reads every transaction row from table.
func LoadSalesRecords(ctx context.Context, db Querier, table string) ([]models.RawRecord, error) {
	rows, err := db.Query(ctx, salesQuery(table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	records := make([]models.RawRecord, 0)
	for rows.Next() {
		var r models.RawRecord
		if err := rows.Scan(
			&r.OrderDate, &r.ShipDate,
			&r.Category, &r.Region, &r.State,
			&r.Segment, &r.SubCategory, &r.ProductName,
			&r.Sales, &r.Profit, &r.Discount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	log.Printf("📦 [DATASET] Loaded %d records from %s", len(records), table)
	return records, nil
}
