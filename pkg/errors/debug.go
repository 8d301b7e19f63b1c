package errors

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	SQLCode       string `json:"sql_code,omitempty"`
	SQLConstraint string `json:"sql_constraint,omitempty"`
	SQLTable      string `json:"sql_table,omitempty"`
	SQLColumn     string `json:"sql_column,omitempty"`
	SQLDetail     string `json:"sql_detail,omitempty"`
	SQLMessage    string `json:"sql_message,omitempty"`
}

// Dump flattens an error chain into log-friendly fields, pulling driver
// detail out of Postgres (pgx, lib/pq) and MySQL errors when present.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.SQLCode = pgxErr.Code
		d.SQLConstraint = pgxErr.ConstraintName
		d.SQLTable = pgxErr.TableName
		d.SQLColumn = pgxErr.ColumnName
		d.SQLDetail = pgxErr.Detail
		d.SQLMessage = pgxErr.Message
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.SQLCode = string(pqErr.Code)
		d.SQLConstraint = pqErr.Constraint
		d.SQLTable = pqErr.Table
		d.SQLColumn = pqErr.Column
		d.SQLDetail = pqErr.Detail
		d.SQLMessage = pqErr.Message
		return d
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		d.SQLCode = fmt.Sprintf("%d", myErr.Number)
		d.SQLMessage = myErr.Message
		return d
	}

	return d
}
