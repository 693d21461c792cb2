package server

import (
	"io"
	"net/http"

	"github.com/me/wfstage/internal/parser"
	"github.com/me/wfstage/pkg/model"
	"github.com/me/wfstage/pkg/stage"
)

// maxBodySize bounds request bodies; stage definitions are small.
const maxBodySize = 4 << 20

// handleValidate validates a stage-definition document (YAML or JSON
// body) without persisting anything. A valid document comes back
// normalized; an invalid one comes back as a 422 carrying the full
// diagnostic list.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	def, _, apiErr := s.validateBody(r)
	if apiErr != nil {
		status := http.StatusBadRequest
		if apiErr.Code == model.ErrValidation {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, reqID, status, apiErr)
		return
	}

	respondOK(w, reqID, map[string]any{
		"valid":      true,
		"normalized": def.Document(),
	})
}

// validateBody reads, parses and validates the request body, returning
// the normalized definition and the raw bytes.
func (s *Server) validateBody(r *http.Request) (*stage.StageDefinition, []byte, *model.APIError) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, nil, model.NewBadRequestError("read request body: " + err.Error())
	}
	if len(raw) == 0 {
		return nil, nil, model.NewBadRequestError("request body is empty")
	}

	root, err := parser.Load(raw)
	if err != nil {
		return nil, nil, model.NewBadRequestError(err.Error())
	}

	def, diags := s.validator.Validate(root)
	if diags != nil {
		return nil, nil, model.NewValidationError("stage definition validation failed", diags)
	}
	return def, raw, nil
}
