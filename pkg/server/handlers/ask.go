package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	kag "github.com/soundprediction/go-kag"
	"github.com/soundprediction/go-kag/pkg/server/dto"
)

// AskHandler answers questions with evidence-augmented prompts.
type AskHandler struct {
	system *kag.System
}

func NewAskHandler(system *kag.System) *AskHandler {
	return &AskHandler{system: system}
}

// Ask handles POST /ask.
func (h *AskHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	method := kag.Method(req.Method)
	if req.Method == "" {
		method = kag.MethodKAGRAG
	}

	answer, err := h.system.AnswerQuestion(c.Request.Context(), req.Question, method)
	if err != nil {
		status := http.StatusInternalServerError
		code := "answer_failed"
		if errors.Is(err, kag.ErrUnknownMethod) {
			status = http.StatusBadRequest
			code = "unknown_method"
		}
		c.JSON(status, dto.ErrorResponse{Error: code, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.AskResponse{
		Question: answer.Question,
		Method:   string(answer.Method),
		Answer:   answer.Response,
		Evidence: answer.Evidence,
	})
}

// Compare handles POST /ask/compare: it returns the enhanced prompt
// per method without calling the completion client.
func (h *AskHandler) Compare(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	compared, err := h.system.CompareEnhancements(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "compare_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, compared)
}
