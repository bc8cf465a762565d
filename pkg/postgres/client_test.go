package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert user: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), WithURL("postgres://%zz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres parse config")
}

func TestNilClientPing(t *testing.T) {
	var c *Client
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
