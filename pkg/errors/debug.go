package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Diagnostics is the log-only view of an error: its code, every wrapped
// layer and, for database failures, the driver's constraint details.
type Diagnostics struct {
	Message    string
	Code       Code
	Chain      []string
	SQLState   string
	Constraint string
	Table      string
}

// Dump walks err and collects its diagnostics.
func Dump(err error) Diagnostics {
	if err == nil {
		return Diagnostics{}
	}
	d := Diagnostics{Message: err.Error()}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.SQLState, d.Constraint, d.Table = databaseDetails(err)
	return d
}

// Fields flattens the diagnostics into structured log fields, omitting empty ones.
func (d Diagnostics) Fields() map[string]any {
	fields := map[string]any{"error": d.Message}
	if d.Code != "" {
		fields["error_code"] = string(d.Code)
	}
	if len(d.Chain) > 1 {
		fields["error_chain"] = d.Chain
	}
	if d.SQLState != "" {
		fields["sql_state"] = d.SQLState
	}
	if d.Constraint != "" {
		fields["sql_constraint"] = d.Constraint
	}
	if d.Table != "" {
		fields["sql_table"] = d.Table
	}
	return fields
}

// databaseDetails understands pgx, lib/pq and sqlite constraint errors.
func databaseDetails(err error) (state, constraint, table string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, pqErr.Table
	}
	const sqliteUnique = "UNIQUE constraint failed: "
	if msg := err.Error(); strings.Contains(msg, sqliteUnique) {
		column := strings.TrimSpace(msg[strings.Index(msg, sqliteUnique)+len(sqliteUnique):])
		if dot := strings.IndexByte(column, '.'); dot > 0 {
			table = column[:dot]
		}
		return "sqlite_unique", column, table
	}
	return "", "", ""
}
