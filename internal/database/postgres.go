package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TemirB/wb-cart-quantity/internal/config"
	"github.com/TemirB/wb-cart-quantity/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

// DB is the subset of *pgxpool.Pool the repo needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repo struct {
	db     DB
	tables config.Tables
}

func New(db DB, t config.Tables) *Repo { return &Repo{db: db, tables: t} }

// Connect opens a pool with SQL tracing routed to logger.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newZapTracer(logger),
		LogLevel: tracelog.LogLevelWarn,
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func (r *Repo) qt(tbl string) string { return fmt.Sprintf(`"%s"."%s"`, r.tables.Schema, tbl) }

// Upsert writes the cart, its items and their units in one transaction.
// Items and units missing from c are removed.
func (r *Repo) Upsert(ctx context.Context, c *domain.Cart) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}

	if _, err = tx.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (cart_uid, session_id, currency, items_total, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (cart_uid) DO UPDATE SET
		  session_id=EXCLUDED.session_id,
		  currency=EXCLUDED.currency,
		  items_total=EXCLUDED.items_total,
		  updated_at=EXCLUDED.updated_at
	`, r.qt(r.tables.Cart)),
		c.CartUID, c.SessionID, c.Currency, c.ItemsTotal, c.UpdatedAt,
	); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE cart_uid=$1`, r.qt(r.tables.Unit)), c.CartUID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE cart_uid=$1`, r.qt(r.tables.Item)), c.CartUID); err != nil {
		return err
	}

	var (
		unitIDs   []string
		unitItems []string
		unitTimes []time.Time
	)
	for pos, it := range c.Items {
		if _, err = tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (cart_uid, item_id, position, product_id, name, unit_price, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, r.qt(r.tables.Item)),
			c.CartUID, it.ID, pos, it.ProductID, it.Name, it.UnitPrice, it.Total,
		); err != nil {
			return err
		}
		for _, u := range it.Units {
			unitIDs = append(unitIDs, u.ID)
			unitItems = append(unitItems, it.ID)
			unitTimes = append(unitTimes, u.CreatedAt)
		}
	}

	if len(unitIDs) > 0 {
		if _, err = tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (unit_id, cart_uid, item_id, created_at)
			SELECT u.id, $1, u.item_id, u.created_at
			FROM unnest($2::text[], $3::text[], $4::timestamptz[]) AS u(id, item_id, created_at)
		`, r.qt(r.tables.Unit)),
			c.CartUID, unitIDs, unitItems, unitTimes,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetByUID(ctx context.Context, uid string) (*domain.Cart, error) {
	var c domain.Cart
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT cart_uid, session_id, currency, items_total, updated_at
		FROM %s WHERE cart_uid=$1
	`, r.qt(r.tables.Cart)), uid).Scan(
		&c.CartUID, &c.SessionID, &c.Currency, &c.ItemsTotal, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT item_id, product_id, name, unit_price, total
		FROM %s WHERE cart_uid=$1
		ORDER BY position
	`, r.qt(r.tables.Item)), uid)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	for rows.Next() {
		it := domain.OrderItem{CartUID: uid}
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.UnitPrice, &it.Total); err != nil {
			rows.Close()
			return nil, err
		}
		index[it.ID] = len(c.Items)
		c.Items = append(c.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	units, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT unit_id, item_id, created_at
		FROM %s WHERE cart_uid=$1
		ORDER BY created_at, unit_id
	`, r.qt(r.tables.Unit)), uid)
	if err != nil {
		return nil, err
	}
	defer units.Close()

	for units.Next() {
		var u domain.OrderItemUnit
		if err := units.Scan(&u.ID, &u.ItemID, &u.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[u.ItemID]; ok {
			c.Items[i].Units = append(c.Items[i].Units, u)
		}
	}
	return &c, units.Err()
}

func (r *Repo) RecentCartIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT cart_uid FROM %s
		ORDER BY updated_at DESC NULLS LAST
		LIMIT $1
	`, r.qt(r.tables.Cart)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
