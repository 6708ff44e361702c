package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/VitaminP8/blogery/internal/pagination"
	"github.com/rs/zerolog/hlog"
)

// keepAliveInterval - период комментариев-пингов в SSE-потоке
const keepAliveInterval = 15 * time.Second

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) error {
	postID, err := idParam(r, "id")
	if err != nil {
		return err
	}

	q := r.URL.Query()
	page, err := h.Comments.List(r.Context(), postID, pagination.Parse(q.Get("page"), q.Get("limit")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, page)
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) error {
	postID, err := idParam(r, "id")
	if err != nil {
		return err
	}

	var body commentBody
	if err = decodeJSON(r, &body); err != nil {
		return err
	}

	c, err := h.Comments.Create(r.Context(), postID, body.Body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{"comment": c})
}

func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) error {
	postID, err := idParam(r, "id")
	if err != nil {
		return err
	}
	commentID, err := idParam(r, "commentId")
	if err != nil {
		return err
	}

	var body commentBody
	if err = decodeJSON(r, &body); err != nil {
		return err
	}

	c, err := h.Comments.Update(r.Context(), postID, commentID, body.Body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"comment": c})
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) error {
	postID, err := idParam(r, "id")
	if err != nil {
		return err
	}
	commentID, err := idParam(r, "commentId")
	if err != nil {
		return err
	}

	if err = h.Comments.Delete(r.Context(), postID, commentID); err != nil {
		return err
	}
	return noContent(w)
}

// streamComments отдает новые комментарии поста как Server-Sent Events (event: comment)
func (h *Handler) streamComments(w http.ResponseWriter, r *http.Request) error {
	postID, err := idParam(r, "id")
	if err != nil {
		return err
	}

	if _, err = h.Posts.Get(r.Context(), postID); err != nil {
		return err
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming is not supported by %T", w)
	}

	comments, cancel := h.Events.Subscribe(postID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	logger := hlog.FromRequest(r)
	for {
		select {
		case <-r.Context().Done():
			return nil
		case <-ticker.C:
			if _, err = fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			flusher.Flush()
		case c, ok := <-comments:
			if !ok {
				return nil
			}
			data, err := json.Marshal(c)
			if err != nil {
				logger.Error().Err(err).Uint("post_id", postID).Msg("could not encode comment event")
				continue
			}
			if _, err = fmt.Fprintf(w, "event: comment\nid: %d\ndata: %s\n\n", c.ID, data); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}
