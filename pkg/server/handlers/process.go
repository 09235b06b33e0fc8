package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	kag "github.com/soundprediction/go-kag"
	"github.com/soundprediction/go-kag/pkg/server/dto"
)

// ProcessHandler runs document processing requests through the system.
type ProcessHandler struct {
	system *kag.System
}

func NewProcessHandler(system *kag.System) *ProcessHandler {
	return &ProcessHandler{system: system}
}

// Process handles POST /process.
func (h *ProcessHandler) Process(c *gin.Context) {
	var req dto.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	label := req.Label
	if label == "" {
		label = "Document"
	}

	result, err := h.system.ProcessText(c.Request.Context(), req.Text, label)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "processing_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProcessResponse{
		DocumentID: result.DocumentID,
		Triplets:   result.Triplets,
		Stats:      result.Stats,
		Exported:   result.Exported,
	})
}

// Stats handles GET /stats.
func (h *ProcessHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.system.Stats())
}

// Clear handles DELETE /graph.
func (h *ProcessHandler) Clear(c *gin.Context) {
	h.system.Clear(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
