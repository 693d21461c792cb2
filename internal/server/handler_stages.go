package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/me/wfstage/pkg/model"
)

// handleCreateStage validates the submitted document and, when valid,
// persists the normalized definition under a fresh instance id. Invalid
// documents are never stored.
func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	def, raw, apiErr := s.validateBody(r)
	if apiErr != nil {
		status := http.StatusBadRequest
		if apiErr.Code == model.ErrValidation {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, reqID, status, apiErr)
		return
	}

	normalized, err := json.Marshal(def.Document())
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: "encode normalized document: " + err.Error()})
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "stage"
	}

	rec := &model.StageRecord{
		ID:           uuid.New().String(),
		Name:         name,
		WorkflowID:   fmt.Sprintf("%v", def.WorkflowID),
		WorkflowType: def.WorkflowType,
		Raw:          string(raw),
		Normalized:   string(normalized),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateStage(r.Context(), rec); err != nil {
		s.logger.Error("create stage", "error", err)
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: "persist stage record"})
		return
	}

	respondCreated(w, reqID, rec)
}

// handleListStages lists persisted stage records, newest first.
func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts := model.DefaultListOptions()
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}
	opts.Clamp()

	recs, total, err := s.store.ListStages(r.Context(), opts)
	if err != nil {
		s.logger.Error("list stages", "error", err)
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: "list stage records"})
		return
	}

	pg := &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(recs) < total,
	}
	respondList(w, reqID, recs, pg)
}

// handleGetStage returns one stage record by instance id.
func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	rec, err := s.store.GetStage(r.Context(), id)
	if err != nil {
		s.logger.Error("get stage", "id", id, "error", err)
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: "load stage record"})
		return
	}
	if rec == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("stage", id))
		return
	}
	respondOK(w, reqID, rec)
}

// handleDeleteStage removes a stage record.
func (s *Server) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	ok, err := s.store.DeleteStage(r.Context(), id)
	if err != nil {
		s.logger.Error("delete stage", "id", id, "error", err)
		respondError(w, reqID, http.StatusInternalServerError,
			&model.APIError{Code: model.ErrInternal, Message: "delete stage record"})
		return
	}
	if !ok {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("stage", id))
		return
	}
	respondOK(w, reqID, map[string]any{"deleted": id})
}
