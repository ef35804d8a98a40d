package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// LogFields flattens err for the request log. Typed errors add their code and
// details, so a checkout shortage logs the comics that ran out. Driver errors
// add the constraint or table that rejected the write.
func LogFields(err error) map[string]any {
	if err == nil {
		return nil
	}
	fields := map[string]any{
		"error":       err.Error(),
		"error_chain": chain(err),
	}
	if typed := As(err); typed != nil {
		fields["error_code"] = typed.Code()
		if details := typed.Details(); details != nil {
			fields["error_details"] = details
		}
	}
	for k, v := range driverFields(err) {
		fields[k] = v
	}
	return fields
}

func chain(err error) []string {
	var out []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, fmt.Sprintf("%T: %v", e, e))
	}
	return out
}

func driverFields(err error) map[string]any {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgFields(pgxErr.Code, map[string]string{
			"pg_constraint": pgxErr.ConstraintName,
			"pg_table":      pgxErr.TableName,
			"pg_column":     pgxErr.ColumnName,
			"pg_detail":     pgxErr.Detail,
			"pg_message":    pgxErr.Message,
		})
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgFields(string(pqErr.Code), map[string]string{
			"pg_constraint": pqErr.Constraint,
			"pg_table":      pqErr.Table,
			"pg_column":     pqErr.Column,
			"pg_detail":     pqErr.Detail,
			"pg_message":    pqErr.Message,
		})
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return map[string]any{"sqlite_code": liteErr.ExtendedCode.Error()}
	}
	return nil
}

// pgFields drops the empty columns; a check violation on stock_qty has no
// column but names its constraint.
func pgFields(code string, extra map[string]string) map[string]any {
	fields := map[string]any{"pg_code": code}
	for k, v := range extra {
		if v != "" {
			fields[k] = v
		}
	}
	return fields
}
