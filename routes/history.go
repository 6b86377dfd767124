package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"legalease-backend/internal/logger"
	"legalease-backend/middleware"
	"legalease-backend/services"
	"legalease-backend/utils"
)

// HistoryHandler serves the analysis history endpoints.
type HistoryHandler struct {
	store  services.AnalysisStore
	export *services.ExportService
}

func NewHistoryHandler(store services.AnalysisStore, export *services.ExportService) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		export: export,
	}
}

// SetupHistoryRoutes registers the history endpoints.
func SetupHistoryRoutes(router *gin.Engine, handler *HistoryHandler, authMiddleware *middleware.AuthMiddleware) {
	history := router.Group("/history", authMiddleware.RequireAuth())
	{
		history.GET("", handler.List)
		history.GET("/:id", handler.Get)
		history.DELETE("/:id", handler.Delete)
		history.GET("/:id/export", handler.Export)
	}
}

// List returns one page of the user's analyses, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.store.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		logger.Error("History list failed", "user_id", userID, "error", err)
		utils.RespondWithInternalError(c, "Failed to load history")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns the full analysis record.
func (h *HistoryHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondWithNotFound(c, "Analysis not found")
		return
	}

	analysis, err := h.store.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			utils.RespondWithNotFound(c, "Analysis not found")
			return
		}
		logger.Error("History get failed", "user_id", userID, "analysis_id", id.Hex(), "error", err)
		utils.RespondWithInternalError(c, "Failed to load analysis")
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// Delete removes the analysis. A repeat delete answers 404.
func (h *HistoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondWithNotFound(c, "Analysis not found")
		return
	}

	if err := h.store.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			utils.RespondWithNotFound(c, "Analysis not found")
			return
		}
		logger.Error("History delete failed", "user_id", userID, "analysis_id", id.Hex(), "error", err)
		utils.RespondWithInternalError(c, "Failed to delete analysis")
		return
	}

	c.Status(http.StatusNoContent)
}

// Export downloads the analysis as an Excel workbook.
func (h *HistoryHandler) Export(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondWithNotFound(c, "Analysis not found")
		return
	}

	analysis, err := h.store.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			utils.RespondWithNotFound(c, "Analysis not found")
			return
		}
		logger.Error("History export failed", "user_id", userID, "analysis_id", id.Hex(), "error", err)
		utils.RespondWithInternalError(c, "Failed to load analysis")
		return
	}

	workbook, err := h.export.BuildWorkbook(analysis)
	if err != nil {
		logger.Error("Workbook generation failed", "analysis_id", id.Hex(), "error", err)
		utils.RespondWithInternalError(c, "Failed to generate export")
		return
	}

	filename := fmt.Sprintf("analysis_%s.xlsx", id.Hex())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
