package patient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"careline/pkg/sentinel"
)

const dateLayout = "2006-01-02"

// Handler is the REST layer for the patient service.
type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/patients", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
	return r
}

type patientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	DateOfBirth string `json:"dateOfBirth"`
}

type patientResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"dateOfBirth"`
	RegisteredDate string `json:"registeredDate"`
}

func toResponse(rec Record) patientResponse {
	return patientResponse{
		ID:             rec.ID.String(),
		Name:           rec.Name,
		Email:          rec.Email,
		Address:        rec.Address,
		DateOfBirth:    rec.DateOfBirth.Format(dateLayout),
		RegisteredDate: rec.RegisteredDate.Format(dateLayout),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.coordinator.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]patientResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	rec, err := h.coordinator.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(w, errors.New("invalid patient id"))
		return
	}
	rec, err := h.coordinator.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(w, errors.New("invalid patient id"))
		return
	}
	req, err := decodeRequest(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	rec, err := h.coordinator.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(w, errors.New("invalid patient id"))
		return
	}
	if err := h.coordinator.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeRequest(r *http.Request) (WriteRequest, error) {
	var body patientRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return WriteRequest{}, errors.New("invalid request body")
	}
	if body.Name == "" {
		return WriteRequest{}, errors.New("name is required")
	}
	if _, err := mail.ParseAddress(body.Email); err != nil {
		return WriteRequest{}, errors.New("a valid email is required")
	}
	if body.Address == "" {
		return WriteRequest{}, errors.New("address is required")
	}
	dob, err := time.Parse(dateLayout, body.DateOfBirth)
	if err != nil {
		return WriteRequest{}, errors.New("dateOfBirth must be YYYY-MM-DD")
	}
	return WriteRequest{
		Name:        body.Name,
		Email:       body.Email,
		Address:     body.Address,
		DateOfBirth: dob,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
}

// writeError maps domain errors onto HTTP statuses. Billing failures become a
// 502: the create failed as a whole even though the local write stuck.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sentinel.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email address already exists"})
	case errors.Is(err, sentinel.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "patient not found"})
	case errors.Is(err, sentinel.ErrBillingUnavailable):
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "billing account creation failed"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}
}
