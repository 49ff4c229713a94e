// Package repository provides persistence for the application's models.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/webkernel/app/model"
	"github.com/dmitrymomot/webkernel/pkg/db"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("repository: not found")

// UserStore is the user persistence contract shared by Users and Cached.
type UserStore interface {
	Find(ctx context.Context, id int64) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Save(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
}

// Users stores users in SQL. Queries are written with "?" placeholders
// and rebound for the driver's dialect.
type Users struct {
	db     *sql.DB
	driver string
}

// NewUsers creates a repository on d.
func NewUsers(d *db.DB) *Users {
	return &Users{db: d.SQL, driver: d.Driver}
}

const userColumns = `id, name, email, created_at`

func (r *Users) Find(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, r.bind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find user %d: %w", id, err)
	}
	return u, nil
}

func (r *Users) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: list users: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: list users: %w", err)
	}
	return users, nil
}

// Save updates a persisted user or inserts a new one and assigns its ID.
func (r *Users) Save(ctx context.Context, u *model.User) error {
	if u.Persisted() {
		res, err := r.db.ExecContext(ctx, r.bind(`UPDATE users SET name = ?, email = ? WHERE id = ?`), u.Name, u.Email, u.ID)
		if err != nil {
			return fmt.Errorf("repository: update user %d: %w", u.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: user %d", ErrNotFound, u.ID)
		}
		return nil
	}

	id, err := r.insert(ctx, u)
	if err != nil {
		return fmt.Errorf("repository: insert user: %w", err)
	}
	u.ID = id
	return nil
}

// insert returns the new row id. Postgres has no LastInsertId and
// uses RETURNING instead.
func (r *Users) insert(ctx context.Context, u *model.User) (int64, error) {
	const q = `INSERT INTO users (name, email) VALUES (?, ?)`

	if r.driver == db.DriverPostgres {
		var id int64
		err := r.db.QueryRowContext(ctx, r.bind(q+` RETURNING id`), u.Name, u.Email).Scan(&id)
		return id, err
	}

	res, err := r.db.ExecContext(ctx, q, u.Name, u.Email)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Users) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.bind(`DELETE FROM users WHERE id = ?`), id); err != nil {
		return fmt.Errorf("repository: delete user %d: %w", id, err)
	}
	return nil
}

// bind rewrites "?" placeholders as "$1", "$2", ... for postgres.
func (r *Users) bind(q string) string {
	if r.driver != db.DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*model.User, error) {
	var (
		u       model.User
		created sql.NullTime
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &created); err != nil {
		return nil, err
	}
	if created.Valid {
		u.CreatedAt = created.Time
	}
	return &u, nil
}

var _ UserStore = (*Users)(nil)
