package handler

import (
	"errors"
	"net/http"

	apperrors "league-core/pkg/app_errors"
	"league-core/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// idURI 路徑上的 :id
type idURI struct {
	ID int `uri:"id" binding:"required,min=1"`
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// handleError 依錯誤分類對應 HTTP status：validation 400、not found 404、conflict 409，其餘 500
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	kind := apperrors.KindOf(err)
	message := "Internal server error"
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch kind {
	case apperrors.KindValidation:
		log.Warn("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "kind": kind.String()})
	case apperrors.KindNotFound:
		log.Warn("Not found")
		c.JSON(http.StatusNotFound, gin.H{"error": message, "kind": kind.String()})
	case apperrors.KindConflict:
		log.Warn("Conflict")
		c.JSON(http.StatusConflict, gin.H{"error": message, "kind": kind.String()})
	default:
		log.Error("Unexpected error")
		// 不把底層錯誤細節回給呼叫端
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": kind.String()})
	}
}

func handleSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}
