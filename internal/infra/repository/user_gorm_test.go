package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}

	assert.True(t, isUniqueViolation(unique))
	//gormが包んでいても拾える
	assert.True(t, isUniqueViolation(fmt.Errorf("create: %w", unique)))

	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	//別のPostgresエラーコードは対象外
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
