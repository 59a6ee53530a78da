package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"halalfood-backend/internal/domain"
)

const pqUniqueViolation = "23505"

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(ctx context.Context, dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	r := &PostgresRepo{db: db}
	if err := r.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepo) Close(context.Context) error { return r.db.Close() }

func (r *PostgresRepo) init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ
		);`,
		`CREATE TABLE IF NOT EXISTS menu (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			recipe TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '',
			rating INT NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS carts (
			id TEXT PRIMARY KEY,
			menu_item_id TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			quantity INT NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS carts_email_idx ON carts (email);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			transaction_id TEXT NOT NULL UNIQUE,
			cart TEXT,
			total NUMERIC(12,2),
			currency TEXT NOT NULL DEFAULT '',
			paid_status BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ
		);`,
	}
	for _, q := range stmts {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// users

func (r *PostgresRepo) InsertUserIfAbsent(ctx context.Context, u *domain.User) (string, bool, error) {
	id := uuid.NewString()
	var got string
	err := r.db.QueryRowContext(ctx, `INSERT INTO users (id,email,name,photo_url,role,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (email) DO NOTHING
		RETURNING id`,
		id, u.Email, u.Name, u.PhotoURL, u.Role, u.CreatedAt).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return got, true, nil
}

func (r *PostgresRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, `SELECT id,email,name,photo_url,role,created_at FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func (r *PostgresRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,email,name,photo_url,role,created_at FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SetUserRole(ctx context.Context, id, role string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role=$1 WHERE id=$2 AND role IS DISTINCT FROM $1`, role, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// orders

func (r *PostgresRepo) InsertOrder(ctx context.Context, o *domain.Order) (string, error) {
	cart, err := json.Marshal(o.Cart)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `INSERT INTO orders (id,transaction_id,cart,total,currency,paid_status,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, o.TransactionID, string(cart), o.Total, o.Currency, o.PaidStatus, o.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return "", domain.ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresRepo) GetOrderByTransactionID(ctx context.Context, tranID string) (*domain.Order, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id,transaction_id,cart,total,currency,paid_status,created_at FROM orders WHERE transaction_id=$1`, tranID)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (r *PostgresRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,transaction_id,cart,total,currency,paid_status,created_at FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) MarkOrderPaid(ctx context.Context, tranID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET paid_status=TRUE WHERE transaction_id=$1 AND paid_status=FALSE`, tranID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepo) DeleteUnpaidOrder(ctx context.Context, tranID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE transaction_id=$1 AND paid_status=FALSE`, tranID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var cart string
	if err := row.Scan(&o.ID, &o.TransactionID, &cart, &o.Total, &o.Currency, &o.PaidStatus, &o.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cart), &o.Cart); err != nil {
		return nil, err
	}
	return &o, nil
}

// carts

func (r *PostgresRepo) ListCartItems(ctx context.Context, email string) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,menu_item_id,email,name,image,price,quantity FROM carts WHERE email=$1 ORDER BY id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.CartItem, 0)
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.MenuItemID, &it.Email, &it.Name, &it.Image, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) InsertCartItem(ctx context.Context, it *domain.CartItem) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `INSERT INTO carts (id,menu_item_id,email,name,image,price,quantity) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, it.MenuItemID, it.Email, it.Name, it.Image, it.Price, it.Quantity)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PostgresRepo) DeleteCartItem(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// catalog

func (r *PostgresRepo) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,name,recipe,image,category,price FROM menu ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.MenuItem, 0)
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Recipe, &m.Image, &m.Category, &m.Price); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,name,details,rating FROM reviews`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.Name, &rv.Details, &rv.Rating); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
