package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage держит (page-1)*MaxLimit в пределах int32
	MaxPage = math.MaxInt32 / MaxLimit
)

type Params struct {
	Page  int
	Limit int
	Skip  int
	Take  int
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Page - страница списка в формате {data, meta}
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// Paginate ограничивает page отрезком [1, MaxPage], а limit - отрезком [1, MaxLimit]
func Paginate(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
		Take:  limit,
	}
}

// Parse разбирает сырые значения из query. Пустые и нечисловые значения заменяются на значения по умолчанию.
func Parse(rawPage, rawLimit string) Params {
	return Paginate(atoiOr(rawPage, DefaultPage), atoiOr(rawLimit, DefaultLimit))
}

func BuildMeta(page, limit int, totalItems int64) Meta {
	if limit < 1 {
		limit = 1
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func NewPage[T any](items []T, p Params, totalItems int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data: items,
		Meta: BuildMeta(p.Page, p.Limit, totalItems),
	}
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
