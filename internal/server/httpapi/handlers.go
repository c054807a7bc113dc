package httpapi

import (
	"errors"
	"net/http"

	"github.com/storyatlas/storyatlas/internal/common"
	"github.com/storyatlas/storyatlas/internal/server/models"
	"github.com/storyatlas/storyatlas/internal/server/services"
)

type entriesResponse struct {
	Entries []models.ArchiveEntry `json:"entries"`
}

type pinsResponse struct {
	Pins []models.StoryPin `json:"pins"`
}

type createEntryRequest struct {
	Title       string              `json:"title"`
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Meta        string              `json:"meta"`
	Href        string              `json:"href"`
	Media       []models.MediaAsset `json:"media"`
}

type updateEntryRequest struct {
	ID              string              `json:"id"`
	Title           *string             `json:"title"`
	Type            *string             `json:"type"`
	Description     *string             `json:"description"`
	Meta            *string             `json:"meta"`
	Href            *string             `json:"href"`
	Media           []models.MediaAsset `json:"media"`
	RemoveMediaKeys []string            `json:"removeMediaKeys"`
}

type deleteEntryRequest struct {
	ID string `json:"id"`
}

type createPinRequest struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Note string  `json:"note"`
}

// statusForError maps service errors onto HTTP statuses: validation
// problems and unknown ids are the caller's fault, everything else is an
// upstream failure.
func statusForError(err error) int {
	if errors.Is(err, common.ErrValidation) || errors.Is(err, common.ErrNotFound) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) respondEntries(w http.ResponseWriter, r *http.Request, entries []models.ArchiveEntry, err error) {
	if err != nil {
		s.logger.Error(r.Context(), "archive request failed", "error", err.Error())
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, entriesResponse{Entries: entries})
}

// handleListEntries handles GET /api/archive
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.archive.List(r.Context())
	s.respondEntries(w, r, entries, err)
}

// handleCreateEntry handles POST /api/archive
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entries, err := s.archive.Create(r.Context(), services.CreateEntryInput{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Meta:        req.Meta,
		Href:        req.Href,
		Media:       req.Media,
	})
	s.respondEntries(w, r, entries, err)
}

// handleUpdateEntry handles PATCH /api/archive
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req updateEntryRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entries, err := s.archive.Update(r.Context(), services.UpdateEntryInput{
		ID: req.ID,
		Patch: models.EntryPatch{
			Title:       req.Title,
			Type:        req.Type,
			Description: req.Description,
			Meta:        req.Meta,
			Href:        req.Href,
		},
		Media:           req.Media,
		RemoveMediaKeys: req.RemoveMediaKeys,
	})
	s.respondEntries(w, r, entries, err)
}

// handleDeleteEntry handles DELETE /api/archive
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	var req deleteEntryRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entries, err := s.archive.Delete(r.Context(), req.ID)
	s.respondEntries(w, r, entries, err)
}

// handleListPins handles GET /api/pins
func (s *Server) handleListPins(w http.ResponseWriter, r *http.Request) {
	pins, err := s.pins.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "pin list failed", "error", err.Error())
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, pinsResponse{Pins: pins})
}

// handleCreatePin handles POST /api/pins
func (s *Server) handleCreatePin(w http.ResponseWriter, r *http.Request) {
	var req createPinRequest
	if err := parseJSONBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pins, err := s.pins.Create(r.Context(), req.Lat, req.Lng, req.Note)
	if err != nil {
		s.logger.Error(r.Context(), "pin create failed", "error", err.Error())
		s.writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, pinsResponse{Pins: pins})
}
