package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/challenge-solver/internal/analysis"
	"github.com/jonathan/challenge-solver/internal/db"
	"github.com/jonathan/challenge-solver/internal/imaging"
)

// SolveRequest is the request body for /solve. A challenge comes in either
// as a page URL to capture or as inline instruction markup plus images.
type SolveRequest struct {
	PageURL     string   `json:"page_url,omitempty" validate:"omitempty,url"`
	Instruction string   `json:"instruction,omitempty"`
	Images      []string `json:"images,omitempty" validate:"omitempty,min=1,dive,required"`
}

// SolveResponse is the response for /solve.
type SolveResponse struct {
	RunID string `json:"run_id,omitempty"`
	analysis.Outcome
}

// handleSolve runs one challenge end to end.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	inline := req.Instruction != "" || len(req.Images) > 0
	if (req.PageURL != "") == inline {
		s.errorResponse(w, http.StatusBadRequest, "Provide either page_url or an inline instruction with images, not both")
		return
	}
	if inline && (req.Instruction == "" || len(req.Images) == 0) {
		s.errorResponse(w, http.StatusBadRequest, "Inline challenges need both instruction and images")
		return
	}

	markup := req.Instruction
	imageURLs := req.Images
	source := req.PageURL
	if source == "" {
		source = "inline"
	}

	if req.PageURL != "" {
		challenge, err := s.capture(r.Context(), req.PageURL)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Challenge capture failed: "+err.Error())
			return
		}
		markup = challenge.Instruction
		imageURLs = challenge.ImageURLs
	}

	images, err := imaging.DecodeAll(imageURLs)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Image decoding failed: "+err.Error())
		return
	}

	var runID uuid.UUID
	if s.db != nil {
		runID, err = s.db.CreateSolveRun(r.Context(), source)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to create run: "+err.Error())
			return
		}
	}

	outcome := s.solver.Analyze(r.Context(), markup, images)

	if s.db != nil {
		s.persistOutcome(r, runID, markup, outcome)
	}

	resp := SolveResponse{Outcome: outcome}
	if runID != uuid.Nil {
		resp.RunID = runID.String()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// persistOutcome records the run's artifacts and final state. Persistence
// failures are logged, not surfaced: the solve itself succeeded.
func (s *Server) persistOutcome(r *http.Request, runID uuid.UUID, markup string, outcome analysis.Outcome) {
	ctx := r.Context()
	logErr := func(err error) {
		if err != nil {
			log.Printf("run %s: persistence error: %v", runID, err)
		}
	}
	logErr(s.db.SaveArtifact(ctx, runID, db.StepInstruction, map[string]string{"markup": markup}))
	logErr(s.db.SaveArtifact(ctx, runID, db.StepRule, outcome.Rule))
	logErr(s.db.SaveArtifact(ctx, runID, db.StepResults, outcome.Results))
	logErr(s.db.SaveArtifact(ctx, runID, db.StepDecision, outcome.Decision))

	status := db.StatusCompleted
	logErr(s.db.CompleteSolveRun(ctx, runID, status, string(outcome.Rule.Kind),
		outcome.Decision.SelectedIndex, outcome.Decision.Approximate))
}

// handleListRuns returns recent solve runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	runs, err := s.db.ListSolveRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list runs: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetArtifact returns one stored step artifact for a run.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	step := r.PathValue("step")
	switch step {
	case db.StepInstruction, db.StepRule, db.StepResults, db.StepDecision:
	default:
		s.errorResponse(w, http.StatusBadRequest, "Unknown artifact step: "+step)
		return
	}

	content, err := s.db.GetArtifact(r.Context(), id, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get artifact: "+err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// handleGetRun returns one solve run by ID.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := s.db.GetSolveRun(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get run: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}
