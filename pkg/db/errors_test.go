package db

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation_PostgresDrivers(t *testing.T) {
	pgxErr := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_code_key"})
	if !IsUniqueViolation(pgxErr, "products_code_key") {
		t.Fatal("expected pgx unique violation")
	}
	if IsUniqueViolation(pgxErr, "users_email_key") {
		t.Fatal("constraint name should be matched")
	}

	pqErr := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	if !IsUniqueViolation(pqErr, "") {
		t.Fatal("expected lib/pq unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}, "") {
		t.Fatal("foreign key violation is not a unique violation")
	}
}
