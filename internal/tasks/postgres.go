package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore хранит каждую задачу как непрозрачный JSONB-документ.
//
// Схема нарочно минимальная: ядру не нужны колонки по полям, оно работает
// с документом целиком. position задаёт стабильный порядок вставки для List.
type PostgresStore struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    position BIGSERIAL,
    id       TEXT PRIMARY KEY,
    document JSONB NOT NULL
)`

// NewPostgresStore открывает соединение, проверяет его и создаёт схему.
// Соединение живёт всё время процесса, закрывается через Close.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &PostgresStore{db: db}, nil
}

func (ps *PostgresStore) Insert(ctx context.Context, task Task) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	query := `INSERT INTO tasks (id, document) VALUES ($1, $2)`
	if _, err := ps.db.ExecContext(ctx, query, task.ID, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (ps *PostgresStore) List(ctx context.Context) ([]Task, error) {
	query := `SELECT document FROM tasks ORDER BY position`
	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	list := []Task{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		var t Task
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return list, nil
}

func (ps *PostgresStore) Get(ctx context.Context, id string) (Task, error) {
	query := `SELECT document FROM tasks WHERE id = $1`

	var doc []byte
	err := ps.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var t Task
	if err := json.Unmarshal(doc, &t); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return t, nil
}

func (ps *PostgresStore) Replace(ctx context.Context, task Task) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	query := `UPDATE tasks SET document = $2 WHERE id = $1`
	res, err := ps.db.ExecContext(ctx, query, task.ID, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	res, err := ps.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (ps *PostgresStore) Ping(ctx context.Context) error {
	if err := ps.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
