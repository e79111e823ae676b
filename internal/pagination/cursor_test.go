package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/composer-workspace-service/internal/pagination"
)

func TestCursor_ZeroValueIsFirstPage(t *testing.T) {
	var c pagination.Cursor
	assert.Equal(t, 1, c.Index())
}

func TestCursor_SetPageIsNotClamped(t *testing.T) {
	var c pagination.Cursor
	c.SetPage(42)
	assert.Equal(t, 42, c.Index())
	c.SetPage(0)
	assert.Equal(t, 0, c.Index())
	c.SetPage(-3)
	assert.Equal(t, -3, c.Index())
}

func TestCursor_NextPrevStayInRange(t *testing.T) {
	var c pagination.Cursor
	assert.False(t, c.Prev(3))
	assert.True(t, c.Next(3))
	assert.True(t, c.Next(3))
	assert.Equal(t, 3, c.Index())
	assert.False(t, c.Next(3))
	assert.True(t, c.Prev(3))
	assert.Equal(t, 2, c.Index())
}

func TestCursor_NavigatesBackIntoRange(t *testing.T) {
	var c pagination.Cursor
	c.SetPage(10)
	assert.True(t, c.Prev(3))
	assert.Equal(t, 3, c.Index())

	c.SetPage(-1)
	assert.True(t, c.Next(3))
	assert.Equal(t, 1, c.Index())
}

func TestCursor_Reset(t *testing.T) {
	var c pagination.Cursor
	c.SetPage(7)
	c.Reset()
	assert.Equal(t, 1, c.Index())
}
