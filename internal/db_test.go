package internal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation_DuplicateKey(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "ratings_project_id_judge_id_key"}
	assert.True(t, isUniqueViolation(err))
}

func TestIsUniqueViolation_Wrapped(t *testing.T) {
	err := fmt.Errorf("insert rating: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(err))
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	// other constraint classes and plain infrastructure errors are not conflicts
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}
