package rest

import "net/http"

func (h *Handler) register(w http.ResponseWriter, r *http.Request) error {
	var body registerBody
	if err := decodeJSON(r, &body); err != nil {
		return err
	}

	res, err := h.Users.Register(r.Context(), body.Email, body.Username, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var body loginBody
	if err := decodeJSON(r, &body); err != nil {
		return err
	}

	res, err := h.Users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) error {
	u, err := h.Users.Me(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"user": u})
}
