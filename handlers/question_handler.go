package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wordquiz/services"
)

type QuestionHandler struct {
	questionService *services.QuestionService
	logger          *zap.Logger
}

func NewQuestionHandler(questionService *services.QuestionService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		logger:          logger,
	}
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page, limit := services.ResolvePagination(c.Query("page"), c.Query("limit"))

	result, err := h.questionService.ListQuestions(c.Request.Context(), services.ListParams{
		Page:       page,
		Limit:      limit,
		Difficulty: c.Query("difficulty"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	question, err := h.questionService.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	question, err := h.questionService.UpdateQuestion(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// writeError maps service errors onto status codes. Unexpected errors are logged
// and hidden behind a generic message.
func (h *QuestionHandler) writeError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
	default:
		h.logger.Error("question request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
