// Package testing provides testing utilities for database operations.
package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMockDB(t *testing.T) {
	db, mock, cleanup := NewMockDB(t)
	defer cleanup()

	assert.NotNil(t, db)
	assert.NotNil(t, mock)
}

func TestFixtures(t *testing.T) {
	fixtures := NewFixtures()

	p := fixtures.ValidProduct()
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Tornillo M4", p.Nombre)
	assert.False(t, p.LowStock())

	u := fixtures.ValidUser()
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "admin", u.Rol)
}
