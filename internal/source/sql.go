package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// LoadSQLite runs query against the SQLite database at path and returns the
// result set as Records named after the database file.
func LoadSQLite(ctx context.Context, path, query string, opt Options) (*Records, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}
	if len(cols) == 0 {
		return nil, eris.Wrap(ErrEmpty, "sqlite: query returned no columns")
	}
	col := newCollector(baseName(path), cols, opt)
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan row %d", col.rec.Total+1)
		}
		col.add(cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rows")
	}
	zap.L().Debug("sqlite: loaded rows", zap.String("db", path), zap.Int("rows", col.rec.Total))
	return col.rec, nil
}

// PgQuerier is the subset of a pgx connection or pool used to read a result set.
type PgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ConnectPostgres opens a pgx pool for dsn and verifies it with a ping.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return pool, nil
}

// LoadPostgres runs query and returns the result set as Records.
func LoadPostgres(ctx context.Context, q PgQuerier, name, query string, opt Options) (*Records, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query")
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	if len(fds) == 0 {
		return nil, eris.Wrap(ErrEmpty, "postgres: query returned no columns")
	}
	header := make([]string, len(fds))
	for i, fd := range fds {
		header[i] = fd.Name
	}
	col := newCollector(name, header, opt)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: read row %d", col.rec.Total+1)
		}
		col.add(cellStrings(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}
	zap.L().Debug("postgres: loaded rows", zap.String("source", name), zap.Int("rows", col.rec.Total))
	return col.rec, nil
}

// cellStrings renders driver values the way they would appear in a CSV export.
// NULL becomes the empty string.
func cellStrings(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
