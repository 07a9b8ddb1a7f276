package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"covid_tracker/internal/fetcher"
	"covid_tracker/internal/model"
	"covid_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatHandler handles the covid statistics CRUD and ingestion endpoints
type StatHandler struct {
	stats  service.StatService
	ingest service.IngestService
	logger *zap.Logger
}

// NewStatHandler creates a new StatHandler
func NewStatHandler(stats service.StatService, ingest service.IngestService, logger *zap.Logger) *StatHandler {
	return &StatHandler{stats: stats, ingest: ingest, logger: logger}
}

func (h *StatHandler) ListStats(c *gin.Context) {
	stats, err := h.stats.ListStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list covid stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if stats == nil {
		stats = []model.CovidStat{} // Render [] rather than null
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StatHandler) CreateStat(c *gin.Context) {
	var req model.CreateStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	stat, err := h.stats.CreateStat(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to create covid stat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Record added", "id": stat.ID})
}

func (h *StatHandler) UpdateStat(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	// An empty body is a valid no-op partial update
	var req model.UpdateStatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	_, err = h.stats.UpdateStat(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrStatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error("Failed to update covid stat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record updated"})
}

func (h *StatHandler) DeleteStat(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	if err := h.stats.DeleteStat(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrStatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error("Failed to delete covid stat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
}

func (h *StatHandler) FetchExternal(c *gin.Context) {
	summary, err := h.ingest.FetchAndStore(c.Request.Context())
	if err != nil {
		if errors.Is(err, fetcher.ErrMalformedResponse) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data format"})
			return
		}
		var upstreamErr *fetcher.UpstreamError
		if errors.As(err, &upstreamErr) {
			status := upstreamErr.StatusCode
			if status == 0 {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{"error": "failed to fetch data"})
			return
		}
		h.logger.Error("Failed to ingest external covid data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "COVID data fetched and saved", "data": summary})
}

// RegisterStatRoutes registers the covid routes. PUT is deliberately left
// open: the deployed surface never required auth for updates and clients
// depend on that.
func (h *StatHandler) RegisterStatRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	covidGroup := rg.Group("/covid")
	{
		covidGroup.GET("", h.ListStats)
		covidGroup.GET("/fetch", h.FetchExternal)
		covidGroup.POST("", authMW, h.CreateStat)
		covidGroup.PUT("/:id", h.UpdateStat)
		covidGroup.DELETE("/:id", authMW, adminMW, h.DeleteStat)
	}
}
