package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// BaseRepository provides common functionality for all SQLite repositories
type BaseRepository[T any] struct {
	db      DBTX
	table   string
	entity  string
	columns string
	scan    func(rowScanner) (*T, error)
	logger  *logrus.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository[T any](db DBTX, table, entity, columns string, scan func(rowScanner) (*T, error), logger *logrus.Logger) *BaseRepository[T] {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository[T]{
		db:      db,
		table:   table,
		entity:  entity,
		columns: columns,
		scan:    scan,
		logger:  logger,
	}
}

// GetByID retrieves an entity by its ID
func (r *BaseRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.columns, r.table)
	row := r.executeQueryRow(ctx, "get_by_id", query, id)

	entity, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError(r.entity, id)
		}
		return nil, repositories.NewRepositoryError("get_by_id", r.entity, id, err)
	}

	return entity, nil
}

// List retrieves all entities ordered by ID
func (r *BaseRepository[T]) List(ctx context.Context) ([]*T, error) {
	return r.selectWhere(ctx, "list", "", nil)
}

// Count returns the total number of entities
func (r *BaseRepository[T]) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)

	var count int64
	if err := r.executeQueryRow(ctx, "count", query).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", r.entity, 0, err)
	}

	return count, nil
}

// Exists checks if an entity with the given ID exists
func (r *BaseRepository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", r.table)

	var exists int
	err := r.executeQueryRow(ctx, "exists", query, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, repositories.NewRepositoryError("exists", r.entity, id, err)
	}

	return exists == 1, nil
}

// selectWhere runs SELECT <columns> FROM <table> with an optional WHERE clause, ordered by ID
func (r *BaseRepository[T]) selectWhere(ctx context.Context, operation, where string, args []interface{}) ([]*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", r.columns, r.table)
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY id ASC"

	rows, err := r.executeQuery(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entities := make([]*T, 0)
	for rows.Next() {
		entity, err := r.scan(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError(operation, r.entity, 0, err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError(operation, r.entity, 0, err)
	}

	return entities, nil
}

// insert executes an INSERT and returns the generated row ID
func (r *BaseRepository[T]) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := r.executeExec(ctx, "create", query, args...)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, repositories.NewRepositoryError("create", r.entity, 0, err)
	}

	return id, nil
}

// logQuery logs a query with its execution time
func (r *BaseRepository[T]) logQuery(operation string, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository[T]) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.entity, 0, err)
	}

	return rows, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *BaseRepository[T]) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, row.Err())

	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository[T]) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, r.translateError(operation, err)
	}

	return result, nil
}

// translateError maps SQLite constraint failures onto repository errors
func (r *BaseRepository[T]) translateError(operation string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return repositories.NewRepositoryError(operation, r.entity, 0, fmt.Errorf("%w: %v", repositories.ErrDuplicateEntry, err))
		case sqlite3.ErrConstraintForeignKey:
			return repositories.ConstraintError(r.entity, "FOREIGN KEY", err)
		default:
			return repositories.ConstraintError(r.entity, "CHECK", err)
		}
	}
	return repositories.NewRepositoryError(operation, r.entity, 0, err)
}

// validateID validates that an ID is positive
func (r *BaseRepository[T]) validateID(id int64) error {
	if id <= 0 {
		return repositories.NewRepositoryError("validate", r.entity, id, repositories.ErrInvalidID)
	}
	return nil
}

// conditions accumulates AND-ed WHERE predicates and their arguments
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, arg interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, arg)
}

// addDate matches a timestamp column by its UTC calendar day
func (c *conditions) addDate(column string, date *models.Date) {
	if date != nil {
		c.add(fmt.Sprintf("DATE(%s) = ?", column), date.String())
	}
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

// utc normalizes a timestamp before it is stored so DATE() comparisons see the UTC day
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// withID appends a caller-assigned ID to the insert arguments. Imported ledgers keep their
// source IDs; everything else lets SQLite assign one.
func withID(id int64, args ...interface{}) []interface{} {
	if id > 0 {
		return append(args, id)
	}
	return args
}
