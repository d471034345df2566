package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloakproject/cloak/internal/logging"
	"github.com/cloakproject/cloak/internal/transform"
)

// TransformRequest represents a request to execute a single operation.
type TransformRequest struct {
	Operation string                 `json:"operation"`
	Input     string                 `json:"input"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

// TransformResponse represents the result of a transform operation.
type TransformResponse struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// PipelineRequest represents a request to execute a pipeline of operations.
type PipelineRequest struct {
	Input      string                      `json:"input"`
	Operations []transform.OperationConfig `json:"operations"`
}

// DetectRequest represents a request to auto-detect encoding.
type DetectRequest struct {
	Input string `json:"input"`
}

// DetectResponse represents the detection result.
type DetectResponse struct {
	Detections []transform.DetectionResult `json:"detections"`
}

// SmartDecodeResponse represents the smart auto-decode result.
type SmartDecodeResponse struct {
	Output     string   `json:"output"`
	Pipeline   []string `json:"pipeline"`
	Confidence float64  `json:"confidence"`
	Error      string   `json:"error,omitempty"`
}

// RecipeSaveRequest represents a request to save a recipe.
type RecipeSaveRequest struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Tags        []string                    `json:"tags,omitempty"`
	Operations  []transform.OperationConfig `json:"operations"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Operation == "" {
		http.Error(w, "operation field is required", http.StatusBadRequest)
		return
	}

	op, exists := transform.Lookup(req.Operation)
	if !exists {
		s.writeJSON(w, http.StatusBadRequest, TransformResponse{
			Error: "unknown operation: " + req.Operation,
		})
		return
	}

	ctx := r.Context()
	result, err := op.Execute(ctx, []byte(req.Input), req.Config)
	if err != nil {
		if s.handleContextError(w, ctx) {
			return
		}
		s.audit(logging.AuditEvent{
			EventType: logging.EventTransformFailed,
			Operation: req.Operation,
			Decision:  logging.DecisionDeny,
			Reason:    err.Error(),
		})
		// Malformed input is the client's problem, not a server fault.
		s.writeJSON(w, http.StatusUnprocessableEntity, TransformResponse{Error: err.Error()})
		return
	}

	s.audit(logging.AuditEvent{
		EventType: logging.EventTransformApplied,
		Operation: req.Operation,
		Decision:  logging.DecisionAllow,
	})
	s.writeJSON(w, http.StatusOK, TransformResponse{Output: string(result)})
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(req.Operations) == 0 {
		http.Error(w, "operations field is required and must not be empty", http.StatusBadRequest)
		return
	}

	pipeline := &transform.Pipeline{Operations: req.Operations}

	ctx := r.Context()
	result, err := pipeline.Execute(ctx, []byte(req.Input))
	if err != nil {
		if s.handleContextError(w, ctx) {
			return
		}
		s.audit(logging.AuditEvent{
			EventType: logging.EventTransformFailed,
			Decision:  logging.DecisionDeny,
			Reason:    err.Error(),
		})
		s.writeJSON(w, http.StatusUnprocessableEntity, TransformResponse{Error: err.Error()})
		return
	}

	s.audit(logging.AuditEvent{
		EventType: logging.EventPipelineRun,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"steps": len(req.Operations)},
	})
	s.writeJSON(w, http.StatusOK, TransformResponse{Output: string(result)})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Input == "" {
		http.Error(w, "input field is required", http.StatusBadRequest)
		return
	}

	detector := transform.NewSmartDetector()
	ctx := r.Context()
	detections, err := detector.Detect(ctx, []byte(req.Input))
	if err != nil {
		if s.handleContextError(w, ctx) {
			return
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      err.Error(),
			"detections": []transform.DetectionResult{},
		})
		return
	}

	s.audit(logging.AuditEvent{
		EventType: logging.EventDetectionRun,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"candidates": len(detections)},
	})
	s.writeJSON(w, http.StatusOK, DetectResponse{Detections: detections})
}

func (s *Server) handleSmartDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Input == "" {
		http.Error(w, "input field is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	attempts, err := transform.DecodeAll(ctx, []byte(req.Input))
	if err != nil || len(attempts) == 0 {
		if s.handleContextError(w, ctx) {
			return
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, SmartDecodeResponse{
			Error: "could not detect encoding",
		})
		return
	}

	top := attempts[0]
	s.writeJSON(w, http.StatusOK, SmartDecodeResponse{
		Output:     string(top.Decoded),
		Pipeline:   []string{top.Detection.Operation},
		Confidence: top.Detection.Confidence,
	})
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type OperationInfo struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		Description string `json:"description"`
		Reversible  bool   `json:"reversible"`
	}

	var opList []OperationInfo
	for _, op := range transform.List() {
		_, reversible := op.Reverse()
		opList = append(opList, OperationInfo{
			Name:        op.Name(),
			Type:        string(op.Type()),
			Description: op.Description(),
			Reversible:  reversible,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"operations": opList})
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if name := r.URL.Query().Get("name"); name != "" {
			s.handleRecipeLoad(w, name)
			return
		}
		s.handleRecipeList(w)
	case http.MethodPost:
		s.handleRecipeSave(w, r)
	case http.MethodDelete:
		s.handleRecipeDelete(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRecipeList(w http.ResponseWriter) {
	recipes := s.recipeManager.ListRecipes()

	recipeList := make([]transform.Recipe, len(recipes))
	for i, r := range recipes {
		recipeList[i] = *r
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"recipes": recipeList})
}

func (s *Server) handleRecipeLoad(w http.ResponseWriter, name string) {
	recipe, exists := s.recipeManager.GetRecipe(name)
	if !exists {
		http.Error(w, "recipe not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"recipe": *recipe})
}

func (s *Server) handleRecipeSave(w http.ResponseWriter, r *http.Request) {
	var req RecipeSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	recipe := &transform.Recipe{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Pipeline: transform.Pipeline{
			Operations: req.Operations,
			Reversible: true,
		},
	}

	if err := s.recipeManager.SaveRecipe(recipe); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.audit(logging.AuditEvent{
		EventType: logging.EventRecipeSaved,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"name": req.Name},
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleRecipeDelete(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "recipe name required", http.StatusBadRequest)
		return
	}

	if err := s.recipeManager.DeleteRecipe(name); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.audit(logging.AuditEvent{
		EventType: logging.EventRecipeDeleted,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"name": name},
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleContextError(w http.ResponseWriter, ctx context.Context) bool {
	if ctx.Err() == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		http.Error(w, "request canceled", http.StatusRequestTimeout)
	} else {
		http.Error(w, "request timeout", http.StatusGatewayTimeout)
	}
	return true
}
