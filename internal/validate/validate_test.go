package validate

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBody struct {
	Title    string  `json:"title" validate:"required,min=1"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
}

type testQuery struct {
	SortBy string `schema:"sortBy" validate:"omitempty,oneof=createdAt title"`
}

type testParams struct {
	ID string `schema:"id" validate:"required,numeric"`
}

type errorBody struct {
	Message string  `json:"message"`
	Code    string  `json:"code"`
	Details []Issue `json:"details"`
}

// newTestRouter возвращает роутер, обработчик которого эхо-ответом отдает полученное тело
func newTestRouter(s Schema) http.Handler {
	r := chi.NewRouter()
	r.With(Middleware(s)).Post("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMiddleware(t *testing.T) {
	h := newTestRouter(Schema{
		Body:   New[testBody](),
		Query:  New[testQuery](),
		Params: New[testParams](),
	})

	t.Run("Valid request passes through unchanged", func(t *testing.T) {
		payload := `{"title":"Hello","extra":1}`
		w := doRequest(t, h, "/items/5?sortBy=title", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, payload, w.Body.String())
	})

	t.Run("Empty body fails required fields", func(t *testing.T) {
		w := doRequest(t, h, "/items/5", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "Validation error", body.Message)
		require.Len(t, body.Details, 1)
		assert.Equal(t, []string{"body", "title"}, body.Details[0].Path)
		assert.Equal(t, "required", body.Details[0].Code)
	})

	t.Run("Invalid url", func(t *testing.T) {
		w := doRequest(t, h, "/items/5", `{"title":"x","imageUrl":"not a url"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		require.Len(t, body.Details, 1)
		assert.Equal(t, []string{"body", "imageUrl"}, body.Details[0].Path)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		w := doRequest(t, h, "/items/5", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "invalid_json", body.Details[0].Code)
	})

	t.Run("Query enum", func(t *testing.T) {
		w := doRequest(t, h, "/items/5?sortBy=likes", `{"title":"x"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		require.Len(t, body.Details, 1)
		assert.Equal(t, []string{"query", "sortBy"}, body.Details[0].Path)
		assert.Equal(t, "oneof", body.Details[0].Code)
	})

	t.Run("Non-numeric path param", func(t *testing.T) {
		w := doRequest(t, h, "/items/abc", `{"title":"x"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		require.Len(t, body.Details, 1)
		assert.Equal(t, []string{"params", "id"}, body.Details[0].Path)
	})

	t.Run("Issues from several parts are collected", func(t *testing.T) {
		w := doRequest(t, h, "/items/abc?sortBy=x", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, decodeError(t, w).Details, 3)
	})
}

func TestUsernameRule(t *testing.T) {
	type user struct {
		Username string `json:"username" validate:"required,alphanumunderscore"`
	}

	assert.NoError(t, validate.Struct(&user{Username: "alice_01"}))
	assert.Error(t, validate.Struct(&user{Username: "alice smith"}))
}
