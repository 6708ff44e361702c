// Package validate проверяет {body, query, params} запроса по декларативной схеме
// и отвечает 400 со списком ошибок. Запрос дальше передается без изменений.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// MaxBodyBytes - ограничение на размер JSON-тела
const MaxBodyBytes = 1 << 20

// Schema описывает ожидаемые части запроса. Каждое поле - фабрика указателя на структуру с тегами validate.
type Schema struct {
	Body   func() any
	Query  func() any
	Params func() any
}

// Issue - одна ошибка валидации, path начинается с "body", "query" или "params"
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

// New возвращает фабрику для Schema: validate.Schema{Body: validate.New[registerBody]()}
func New[T any]() func() any {
	return func() any { return new(T) }
}

var identRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var (
	validate = newValidator()
	decoder  = newDecoder()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("alphanumunderscore", func(fl validator.FieldLevel) bool {
		return identRe.MatchString(fl.Field().String())
	})
	return v
}

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// Middleware - обертка для chi: r.With(validate.Middleware(schema)).Post(...)
func Middleware(s Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			issues, err := Check(w, r, s)
			if err != nil {
				apperr.Write(w, r, err)
				return
			}
			if len(issues) > 0 {
				apperr.Write(w, r, apperr.Validation(issues))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Check разбирает и проверяет части запроса. Тело запроса после проверки восстанавливается.
func Check(w http.ResponseWriter, r *http.Request, s Schema) ([]Issue, error) {
	var issues []Issue

	if s.Params != nil {
		values := url.Values{}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				values.Set(key, rctx.URLParams.Values[i])
			}
		}
		issues = append(issues, checkValues("params", s.Params(), values)...)
	}

	if s.Query != nil {
		issues = append(issues, checkValues("query", s.Query(), r.URL.Query())...)
	}

	if s.Body != nil {
		bodyIssues, err := checkBody(w, r, s.Body())
		if err != nil {
			return nil, err
		}
		issues = append(issues, bodyIssues...)
	}

	return issues, nil
}

func checkBody(w http.ResponseWriter, r *http.Request, dst any) ([]Issue, error) {
	var raw []byte
	if r.Body != nil {
		var err error
		raw, err = io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, apperr.New(http.StatusRequestEntityTooLarge, "Request body too large")
			}
			return nil, fmt.Errorf("could not read request body: %w", err)
		}
		_ = r.Body.Close()
	}
	// обработчик прочитает тело еще раз
	r.Body = io.NopCloser(bytes.NewReader(raw))

	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return []Issue{{Path: []string{"body"}, Message: "Invalid JSON body", Code: "invalid_json"}}, nil
	}

	return toIssues("body", validate.Struct(dst)), nil
}

func checkValues(part string, dst any, values url.Values) []Issue {
	if err := decoder.Decode(dst, values); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			issues := make([]Issue, 0, len(multi))
			for field, fieldErr := range multi {
				issues = append(issues, Issue{Path: []string{part, field}, Message: fieldErr.Error(), Code: "invalid_type"})
			}
			return issues
		}
		return []Issue{{Path: []string{part}, Message: err.Error(), Code: "invalid_type"}}
	}
	return toIssues(part, validate.Struct(dst))
}

func toIssues(part string, err error) []Issue {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{Path: []string{part}, Message: err.Error(), Code: "invalid"}}
	}

	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Namespace выглядит как "registerBody.email", корень заменяем на часть запроса
		path := []string{part}
		if segments := strings.Split(fe.Namespace(), "."); len(segments) > 1 {
			path = append(path, segments[1:]...)
		}
		issues = append(issues, Issue{Path: path, Message: message(fe), Code: fe.Tag()})
	}
	return issues
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "url":
		return "Invalid url"
	case "numeric", "number":
		return "Expected a number"
	case "alphanumunderscore":
		return "Only letters, digits and underscore are allowed"
	case "min":
		return fmt.Sprintf("Must contain at least %s character(s)", fe.Param())
	case "max":
		return fmt.Sprintf("Must contain at most %s character(s)", fe.Param())
	case "oneof":
		return fmt.Sprintf("Expected one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
}
