package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	t.Run("Zero values are clamped to minimums", func(t *testing.T) {
		p := Paginate(0, 0)
		assert.Equal(t, Params{Page: 1, Limit: 1, Skip: 0, Take: 1}, p)
	})

	t.Run("Limit is capped at 100", func(t *testing.T) {
		p := Paginate(2, 500)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, MaxLimit, p.Limit)
		assert.Equal(t, 100, p.Skip)
		assert.Equal(t, MaxLimit, p.Take)
	})

	t.Run("Negative values", func(t *testing.T) {
		p := Paginate(-5, -5)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.Limit)
	})

	t.Run("Skip is derived from page and limit", func(t *testing.T) {
		p := Paginate(3, 10)
		assert.Equal(t, 20, p.Skip)
		assert.Equal(t, 10, p.Take)
	})

	t.Run("Huge page does not overflow skip", func(t *testing.T) {
		p := Paginate(math.MaxInt, 100)
		assert.Equal(t, MaxPage, p.Page)
		assert.Equal(t, (MaxPage-1)*MaxLimit, p.Skip)
		assert.GreaterOrEqual(t, p.Skip, 0)
	})

	t.Run("Bounds hold for a range of inputs", func(t *testing.T) {
		for page := -3; page <= 5; page++ {
			for _, limit := range []int{-1, 0, 1, 10, 99, 100, 101, 1000} {
				p := Paginate(page, limit)
				assert.GreaterOrEqual(t, p.Page, 1)
				assert.GreaterOrEqual(t, p.Limit, 1)
				assert.LessOrEqual(t, p.Limit, MaxLimit)
			}
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("Absent values use defaults", func(t *testing.T) {
		p := Parse("", "")
		assert.Equal(t, DefaultPage, p.Page)
		assert.Equal(t, DefaultLimit, p.Limit)
	})

	t.Run("Non-numeric values use defaults", func(t *testing.T) {
		p := Parse("abc", "ten")
		assert.Equal(t, DefaultPage, p.Page)
		assert.Equal(t, DefaultLimit, p.Limit)
	})

	t.Run("Numeric values are clamped", func(t *testing.T) {
		p := Parse("0", "0")
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.Limit)
	})

	t.Run("Page beyond int range of skip", func(t *testing.T) {
		p := Parse("9223372036854775807", "10")
		assert.Equal(t, MaxPage, p.Page)
		assert.GreaterOrEqual(t, p.Skip, 0)
	})

	t.Run("Valid values", func(t *testing.T) {
		p := Parse("4", "25")
		assert.Equal(t, Params{Page: 4, Limit: 25, Skip: 75, Take: 25}, p)
	})
}

func TestBuildMeta(t *testing.T) {
	t.Run("First page of three", func(t *testing.T) {
		m := BuildMeta(1, 10, 25)
		assert.Equal(t, 3, m.TotalPages)
		assert.True(t, m.HasNext)
		assert.False(t, m.HasPrev)
		assert.Equal(t, int64(25), m.TotalItems)
	})

	t.Run("Last page of three", func(t *testing.T) {
		m := BuildMeta(3, 10, 25)
		assert.False(t, m.HasNext)
		assert.True(t, m.HasPrev)
	})

	t.Run("Empty list still has one page", func(t *testing.T) {
		m := BuildMeta(1, 10, 0)
		assert.Equal(t, 1, m.TotalPages)
		assert.False(t, m.HasNext)
		assert.False(t, m.HasPrev)
	})

	t.Run("Exact multiple", func(t *testing.T) {
		m := BuildMeta(2, 10, 20)
		assert.Equal(t, 2, m.TotalPages)
		assert.False(t, m.HasNext)
	})
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, Paginate(1, 10), 0)
	assert.NotNil(t, page.Data)
	assert.Len(t, page.Data, 0)
	assert.Equal(t, 1, page.Meta.TotalPages)
}
