package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// LogFields flattens an error into structured log fields: the top message,
// the typed code when present, the full unwrap chain, and Postgres driver
// detail (code, constraint, table, column) when the chain contains a
// pgx or pq error. Fields absent from the error are omitted.
func LogFields(err error) map[string]any {
	if err == nil {
		return nil
	}

	fields := map[string]any{
		"error": err.Error(),
	}

	if typed := As(err); typed != nil {
		fields["error_code"] = typed.Code()
	}

	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	if len(chain) > 1 {
		fields["error_chain"] = chain
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		addPGFields(fields, pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName, pgxErr.ColumnName, pgxErr.Detail, pgxErr.Message)
		return fields
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		addPGFields(fields, string(pqErr.Code), pqErr.Constraint, pqErr.Table, pqErr.Column, pqErr.Detail, pqErr.Message)
	}

	return fields
}

func addPGFields(fields map[string]any, code, constraint, table, column, detail, message string) {
	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set("pg_code", code)
	set("pg_constraint", constraint)
	set("pg_table", table)
	set("pg_column", column)
	set("pg_detail", detail)
	set("pg_message", message)
}
