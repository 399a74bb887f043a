package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mci-lab/avatarforge/internal/domain"
	"github.com/mci-lab/avatarforge/internal/logger"
	"github.com/mci-lab/avatarforge/internal/service"
)

// MaxImageSize is the upload cap for submitted photos.
const MaxImageSize = 10 << 20 // 10MB

// VariantHandler exposes one product variant's endpoints: configuration
// read/replace, photo submission, paginated results and deletion.
type VariantHandler struct {
	svc *service.SubmissionService
}

// NewVariantHandler creates a handler bound to one variant's submission service.
func NewVariantHandler(svc *service.SubmissionService) *VariantHandler {
	return &VariantHandler{svc: svc}
}

// GetConfig handles GET /{variant}/config.
func (h *VariantHandler) GetConfig(c *gin.Context) {
	cfg, err := h.svc.Config(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Config not found"})
			return
		}
		logger.CtxError(c.Request.Context(), "Failed to load config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// ConfigUpdateRequest is the POST /{variant}/config body.
type ConfigUpdateRequest struct {
	Code           string              `json:"code"`
	PromptTemplate string              `json:"promptTemplate"`
	Questions      domain.QuestionList `json:"questions"`
}

// UpdateConfig handles POST /{variant}/config, replacing all fields of the
// variant configuration.
func (h *VariantHandler) UpdateConfig(c *gin.Context) {
	var req ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	cfg, err := h.svc.UpdateConfig(c.Request.Context(), req.Code, req.PromptTemplate, req.Questions)
	if err != nil {
		var inputErr *service.InputError
		if errors.As(err, &inputErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Reason})
			return
		}
		logger.CtxError(c.Request.Context(), "Failed to update config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Config mise à jour avec succès",
		"config":  cfg,
	})
}

// Submit handles POST /{variant}/submit: a multipart form with name, gender,
// code, the image file, and (adventurer) the answers field.
func (h *VariantHandler) Submit(c *gin.Context) {
	sub := &service.Submission{
		Name:   c.PostForm("name"),
		Gender: c.PostForm("gender"),
		Code:   c.PostForm("code"),
	}

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > MaxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"message": "L'image dépasse la taille maximale de 10 Mo"})
			return
		}
		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Seuls les fichiers image sont autorisés"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Image illisible"})
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Image illisible"})
			return
		}
		sub.Image = data
		sub.ImageMIME = contentType
	}

	if h.svc.Variant().RequiresAnswers {
		answers, ok := parseAnswers(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Format des réponses invalide"})
			return
		}
		sub.Answers = answers
	}

	result, err := h.svc.Submit(c.Request.Context(), sub)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseAnswers reads the answers field, accepting either repeated form values
// or a single JSON-encoded array.
func parseAnswers(c *gin.Context) ([]string, bool) {
	values := c.PostFormArray("answers")
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var answers []string
		if err := json.Unmarshal([]byte(values[0]), &answers); err != nil {
			return nil, false
		}
		return answers, true
	}
	return values, true
}

func (h *VariantHandler) writeSubmitError(c *gin.Context, err error) {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": inputErr.Reason})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusForbidden, gin.H{"message": "Code incorrect"})
	case errors.Is(err, service.ErrNotConfigured):
		c.JSON(http.StatusForbidden, gin.H{"message": "Pas de config disponible"})
	default:
		logger.CtxError(c.Request.Context(), "Submission failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// Results handles GET /{variant}/results with page and limit query parameters,
// newest first.
func (h *VariantHandler) Results(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	pageResult, err := h.svc.Results(c.Request.Context(), page, limit)
	if err != nil {
		logger.CtxError(c.Request.Context(), "Failed to list results: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, pageResult)
}

// DeleteResult handles DELETE /{variant}/results/:id. The delete is confirmed
// before the response is sent.
func (h *VariantHandler) DeleteResult(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID requis"})
		return
	}

	resp, err := h.svc.DeleteResult(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Réponse introuvable"})
			return
		}
		logger.CtxError(c.Request.Context(), "Failed to delete result: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  resp,
		"message": "Réponse supprimée avec succès",
	})
}
