package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/socrates-learning/socrates-api/internal/api/shared"
	"github.com/socrates-learning/socrates-api/internal/domain"
	"github.com/socrates-learning/socrates-api/internal/service"
)

// ProfileHandler serves the learner profile endpoints.
type ProfileHandler struct {
	profileService *service.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(profileService *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger.With(slog.String("component", "profile_handler")),
	}
}

// Create handles POST /api/profiles.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := domain.NewProfile(
		req.Name, req.Age,
		req.EducationLevel, req.EducationYear,
		req.Profession, req.Nationality, req.NativeLanguage)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.profileService.Create(r.Context(), profile)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// Get handles GET /api/profiles/{id}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid profile ID")
		return
	}

	profile, err := h.profileService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// pathID parses a positive int64 URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
