package models

const (
	SortByCreatedAt = "createdAt"
	SortByTitle     = "title"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PostQuery - параметры выборки списка постов
type PostQuery struct {
	Search    string // подстрока в заголовке, без учета регистра
	AuthorID  uint   // 0 - без фильтра по автору
	SortBy    string
	SortOrder string
	Skip      int
	Take      int
}

// Normalize подставляет сортировку по умолчанию: createdAt desc
func (q PostQuery) Normalize() PostQuery {
	if q.SortBy != SortByTitle {
		q.SortBy = SortByCreatedAt
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	return q
}

type PostInput struct {
	Title    string
	Body     string
	ImageURL *string
}

// PostPatch - частичное обновление поста, nil означает "не менять"
type PostPatch struct {
	Title    *string
	Body     *string
	ImageURL *string
}

func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.ImageURL == nil
}
