package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"legalease-backend/internal/config"
	"legalease-backend/internal/logger"
	"legalease-backend/middleware"
	"legalease-backend/services"
	"legalease-backend/utils"
)

// defaultOutputLang is used when the lang query parameter is absent.
const defaultOutputLang = "en"

var supportedOutputLangs = map[string]bool{
	"en": true,
	"hi": true,
}

// UploadHandler owns the streaming upload endpoint.
type UploadHandler struct {
	pipeline    *services.PipelineService
	maxFileSize int64
}

func NewUploadHandler(pipeline *services.PipelineService, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		pipeline:    pipeline,
		maxFileSize: cfg.MaxFileSize,
	}
}

// SetupUploadRoutes registers the upload endpoint.
func SetupUploadRoutes(router *gin.Engine, handler *UploadHandler, authMiddleware *middleware.AuthMiddleware) {
	router.POST("/upload", authMiddleware.RequireAuth(), handler.Upload)
}

// sseEmitter writes pipeline events as SSE data frames. Write failures
// are remembered so later emits become no-ops instead of repeated
// writes to a dead connection.
type sseEmitter struct {
	mu     sync.Mutex
	writer gin.ResponseWriter
	dead   bool
}

func newSSEEmitter(w gin.ResponseWriter) *sseEmitter {
	return &sseEmitter{writer: w}
}

func (e *sseEmitter) Emit(event any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dead {
		return errors.New("client disconnected")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(e.writer, "data: %s\n\n", payload); err != nil {
		e.dead = true
		return err
	}
	e.writer.Flush()
	return nil
}

// Upload accepts a multipart document, streams section progress as SSE,
// and persists the finished analysis.
func (h *UploadHandler) Upload(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		utils.RespondWithUnauthorized(c, "Authentication required")
		return
	}

	outputLang := c.DefaultQuery("lang", defaultOutputLang)
	if !supportedOutputLangs[outputLang] {
		utils.RespondWithBadRequest(c, "Unsupported output language", gin.H{"lang": outputLang})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithBadRequest(c, "A file upload is required", nil)
		return
	}

	if fileHeader.Size > h.maxFileSize {
		utils.RespondWithBadRequest(c, "File exceeds the maximum allowed size", gin.H{"max_bytes": h.maxFileSize})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondWithInternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		utils.RespondWithInternalError(c, "Failed to read uploaded file")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	input := services.UploadInput{
		Content:    content,
		MimeType:   fileHeader.Header.Get("Content-Type"),
		Filename:   fileHeader.Filename,
		UserID:     userID,
		OutputLang: outputLang,
	}

	logger.Info("Upload accepted",
		"user_id", userID,
		"filename", input.Filename,
		"mime_type", input.MimeType,
		"size", fileHeader.Size,
		"output_lang", outputLang,
		"request_id", middleware.GetRequestID(c),
	)

	// The pipeline keeps running if the client disconnects so the
	// record still lands in history; SSE writes just start failing.
	ctx := context.WithoutCancel(c.Request.Context())
	h.pipeline.Run(ctx, input, newSSEEmitter(c.Writer))
}
