package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/gapquiz/internal/pinning"
	"github.com/abhisek/gapquiz/internal/questiongen"
	"github.com/abhisek/gapquiz/internal/store"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Sample profiles served by POST /test-sample.
var (
	SampleUserResults = questiongen.Profile{
		"English":     20,
		"Mathematics": 11,
		"Reading":     11,
		"Science":     19,
	}
	SampleRegionalResults = questiongen.Profile{
		"English":     15,
		"Mathematics": 15,
		"Reading":     15,
		"Science":     15,
	}
)

type generateRequest struct {
	UserResults     questiongen.Profile `json:"user_results"`
	RegionalResults questiongen.Profile `json:"regional_results"`
}

type generateResponse struct {
	Status    string                       `json:"status"`
	Message   string                       `json:"message,omitempty"`
	BatchID   string                       `json:"batch_id,omitempty"`
	Path      string                       `json:"path,omitempty"`
	Questions []questiongen.QuestionRecord `json:"questions"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type pinResponse struct {
	Status  string `json:"status"`
	CID     string `json:"cid"`
	Size    int64  `json:"size"`
	Backend string `json:"backend"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) generateQuestions(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Status:  statusError,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}
	if req.UserResults == nil || req.RegionalResults == nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Status:  statusError,
			Message: "missing required fields: provide user_results and regional_results",
		})
		return
	}
	s.respondGenerated(c, req.UserResults, req.RegionalResults)
}

func (s *Server) testSample(c *gin.Context) {
	s.respondGenerated(c, SampleUserResults, SampleRegionalResults)
}

func (s *Server) respondGenerated(c *gin.Context, user, regional questiongen.Profile) {
	result := s.generator.Generate(c.Request.Context(), user, regional)
	s.metrics.ObserveGeneration(string(result.Path), len(result.Questions))

	if result.Path == questiongen.PathServiceError {
		msg := "question generation failed"
		if result.Err != nil {
			msg = result.Err.Error()
		}
		c.JSON(http.StatusBadGateway, generateResponse{
			Status:    statusError,
			Message:   msg,
			BatchID:   result.BatchID,
			Path:      string(result.Path),
			Questions: result.Questions,
		})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Status:    statusSuccess,
		BatchID:   result.BatchID,
		Path:      string(result.Path),
		Questions: result.Questions,
	})
}

func (s *Server) pin(c *gin.Context) {
	if s.pinner == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			Status:  statusError,
			Message: "pinning is not configured",
		})
		return
	}

	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, errorResponse{
			Status:  statusError,
			Message: "request body must be a JSON document",
		})
		return
	}

	name := c.Query("name")
	res, err := s.pinner.Pin(c.Request.Context(), name, body)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, pinning.ErrInvalidPayload) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("pin failed", zap.String("backend", s.backend), zap.Error(err))
		c.JSON(status, errorResponse{Status: statusError, Message: err.Error()})
		return
	}

	if s.events != nil {
		rec := store.PinEventData{Backend: res.Backend, Name: name, CID: res.CID, Size: res.Size}
		if err := s.events.AppendPin(c.Request.Context(), rec); err != nil {
			s.logger.Warn("record pin", zap.String("cid", res.CID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, pinResponse{
		Status:  statusSuccess,
		CID:     res.CID,
		Size:    res.Size,
		Backend: res.Backend,
	})
}
