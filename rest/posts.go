package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/pagination"
	"github.com/VitaminP8/blogery/models"
)

// MaxImageBytes - ограничение на размер загружаемой картинки
const MaxImageBytes = 5 << 20

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	p := pagination.Parse(q.Get("page"), q.Get("limit"))

	filter := models.PostQuery{
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if raw := q.Get("authorId"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || authorID > uint64(^uint(0)) {
			return apperr.BadRequest("Invalid authorId")
		}
		filter.AuthorID = uint(authorID)
	}

	page, err := h.Posts.List(r.Context(), p, filter)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, page)
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return err
	}

	p, err := h.Posts.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"post": p})
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) error {
	var body createPostBody
	if err := decodeJSON(r, &body); err != nil {
		return err
	}

	p, err := h.Posts.Create(r.Context(), models.PostInput{
		Title:    body.Title,
		Body:     body.Body,
		ImageURL: body.ImageURL,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{"post": p})
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return err
	}

	var body updatePostBody
	if err = decodeJSON(r, &body); err != nil {
		return err
	}

	p, err := h.Posts.Update(r.Context(), id, models.PostPatch{
		Title:    body.Title,
		Body:     body.Body,
		ImageURL: body.ImageURL,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"post": p})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return err
	}

	if err = h.Posts.Delete(r.Context(), id); err != nil {
		return err
	}
	return noContent(w)
}

func (h *Handler) likePost(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return err
	}

	res, err := h.Posts.Like(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) unlikePost(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return err
	}

	res, err := h.Posts.Unlike(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// uploadImage принимает multipart/form-data с файлом в поле "image"
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return err
	}

	// запас на заголовки multipart сверх размера файла
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+64<<10)
	if err = r.ParseMultipartForm(MaxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.New(http.StatusRequestEntityTooLarge, "File too large")
		}
		return apperr.BadRequest("No file")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		return apperr.BadRequest("No file")
	}
	defer file.Close()

	if header.Size > MaxImageBytes {
		return apperr.New(http.StatusRequestEntityTooLarge, "File too large")
	}

	p, err := h.Posts.UploadImage(r.Context(), id, file, header.Filename)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"post": p})
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) error {
	id, err := idParam(r, "id")
	if err != nil {
		return err
	}

	p, err := h.Posts.DeleteImage(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"post": p})
}
