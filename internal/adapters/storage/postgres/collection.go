package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"pet-services/internal/ports/docstore"

	"github.com/jackc/pgx/v5/pgconn"
)

// Los documentos viven en una sola tabla JSONB (documents) particionada por collection.
// Los filtros de igualdad se resuelven con @> y el orden con body->'campo'.

var sortKeyRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type collection[T any] struct {
	db   *sql.DB
	name string
}

func NewCollection[T any](db *sql.DB, name string) docstore.Collection[T] {
	return &collection[T]{db: db, name: name}
}

func (c *collection[T]) Insert(ctx context.Context, id string, doc T) error {
	body, err := encode(doc, id)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())
	`, c.name, id, body)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return docstore.ErrDuplicate
	}
	return err
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	var body []byte
	err := c.db.QueryRowContext(ctx, `
		SELECT body FROM documents WHERE collection = $1 AND id = $2
	`, c.name, id).Scan(&body)
	if err != nil {
		if err == sql.ErrNoRows {
			return out, docstore.ErrNotFound
		}
		return out, err
	}
	err = json.Unmarshal(body, &out)
	return out, err
}

func (c *collection[T]) Find(ctx context.Context, f docstore.Filter, opts docstore.FindOptions) ([]T, error) {
	match, err := encodeMap(f)
	if err != nil {
		return nil, err
	}

	q := `SELECT body FROM documents WHERE collection = $1 AND body @> $2::jsonb`
	if opts.Sort != "" {
		if !sortKeyRe.MatchString(opts.Sort) {
			return nil, fmt.Errorf("postgres: invalid sort key %q", opts.Sort)
		}
		dir := "ASC"
		if opts.Desc {
			dir = "DESC"
		}
		q += fmt.Sprintf(" ORDER BY body->'%s' %s, created_at ASC", opts.Sort, dir)
	} else {
		q += " ORDER BY created_at ASC"
	}
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := c.db.QueryContext(ctx, q, c.name, match)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (c *collection[T]) Count(ctx context.Context, f docstore.Filter) (int64, error) {
	match, err := encodeMap(f)
	if err != nil {
		return 0, err
	}
	var n int64
	err = c.db.QueryRowContext(ctx, `
		SELECT count(*) FROM documents WHERE collection = $1 AND body @> $2::jsonb
	`, c.name, match).Scan(&n)
	return n, err
}

func (c *collection[T]) Replace(ctx context.Context, id string, doc T) error {
	body, err := encode(doc, id)
	if err != nil {
		return err
	}
	res, err := c.db.ExecContext(ctx, `
		UPDATE documents SET body = $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2
	`, c.name, id, body)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *collection[T]) Update(ctx context.Context, id string, match docstore.Filter, set docstore.Fields) error {
	m, err := encodeMap(match)
	if err != nil {
		return err
	}
	patch, err := json.Marshal(set)
	if err != nil {
		return err
	}

	res, err := c.db.ExecContext(ctx, `
		UPDATE documents SET body = body || $4::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2 AND body @> $3::jsonb
	`, c.name, id, m, string(patch))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	err = c.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND id = $2)
	`, c.name, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return docstore.ErrNotFound
	}
	return docstore.ErrConflict
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2
	`, c.name, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// encode serializa el documento y fuerza el campo "id".
func encode(doc any, id string) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}
	m["id"] = id
	out, err := json.Marshal(m)
	return string(out), err
}

func encodeMap(f docstore.Filter) (string, error) {
	if len(f) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(f)
	return string(b), err
}
