package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Paginate(items, 1, 2))
	assert.Equal(t, []int{5}, Paginate(items, 3, 2))
	assert.Empty(t, Paginate(items, 4, 2))
	assert.Equal(t, []int{1, 2}, Paginate(items, 0, 2))
	assert.Equal(t, items, Paginate(items, 1, 0))
	assert.Empty(t, Paginate([]int{}, 1, 20))
}

func TestPaginateHugePageIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}
	assert.NotPanics(t, func() {
		assert.Empty(t, Paginate(items, 1<<62, 20))
		assert.Empty(t, Paginate(items, 1<<62, MaxPageSize))
	})
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 20, ClampPageSize(0, 20))
	assert.Equal(t, 20, ClampPageSize(-3, 20))
	assert.Equal(t, 35, ClampPageSize(35, 20))
	assert.Equal(t, MaxPageSize, ClampPageSize(1<<40, 20))
}
