// Package api serves the index reports over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"SkinIndex/internal/aggregator"
	"SkinIndex/internal/calculator"
	"SkinIndex/internal/config"
	"SkinIndex/internal/report"
	"SkinIndex/internal/store"
)

var errBadParam = errors.New("bad parameter")

// IndexReader is the read side of the store.
type IndexReader interface {
	Ready() bool
	BuiltAt() time.Time
	Indexes() ([]store.IndexInfo, error)
	GetIndex(name string) (*store.Index, error)
}

// RebuildFunc rebuilds the served indexes.
type RebuildFunc func(ctx context.Context) (store.BuildStats, error)

// Defaults are the report options used when a request leaves them out.
type Defaults struct {
	Chart      report.ChartOptions
	Projection report.ProjectionOptions
}

type APIHandler struct {
	store    IndexReader
	rebuild  RebuildFunc
	defaults Defaults
}

// SetupRoutes registers the index routes on r.
func SetupRoutes(r *gin.RouterGroup, st IndexReader, rebuild RebuildFunc, defaults Defaults) *APIHandler {
	h := &APIHandler{store: st, rebuild: rebuild, defaults: defaults}

	r.GET("/health", h.Health)
	r.POST("/rebuild", h.Rebuild)

	indexes := r.Group("/indexes")
	{
		indexes.GET("", h.ListIndexes)
		indexes.GET("/:name/chart", h.Chart)
		indexes.GET("/:name/projection", h.Projection)
		indexes.GET("/:name/stats", h.Stats)
		indexes.GET("/:name/days/:date", h.Day)
		indexes.GET("/:name/export.xlsx", h.Export)
	}
	return h
}

// NewRouter returns an engine with recovery, request logging, CORS and the /api routes.
func NewRouter(st IndexReader, rebuild RebuildFunc, defaults Defaults) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	SetupRoutes(r.Group("/api"), st, rebuild, defaults)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

// DefaultsFromConfig maps the analytics settings to report options.
func DefaultsFromConfig(cfg *config.Config) Defaults {
	a := cfg.Analytics
	return Defaults{
		Chart: report.ChartOptions{
			Windows:          a.Windows,
			TrimDays:         a.TrimDays,
			RemoveOutliers:   a.RemoveOutliers,
			OutlierThreshold: a.OutlierThreshold,
		},
		Projection: report.ProjectionOptions{
			Horizon:          a.ProjectionHorizon,
			Window:           a.ProjectionWindow,
			RemoveOutliers:   a.RemoveOutliers,
			OutlierThreshold: a.OutlierThreshold,
		},
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	if !h.store.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "built_at": h.store.BuiltAt()})
}

func (h *APIHandler) ListIndexes(c *gin.Context) {
	infos, err := h.store.Indexes()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexes": infos, "built_at": h.store.BuiltAt()})
}

func (h *APIHandler) Chart(c *gin.Context) {
	idx, err := h.store.GetIndex(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	opts, err := h.chartOptions(c)
	if err != nil {
		writeError(c, err)
		return
	}
	chart, err := report.BuildChart(idx, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (h *APIHandler) Projection(c *gin.Context) {
	idx, err := h.store.GetIndex(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	opts := h.defaults.Projection
	if opts.Horizon, err = intParam(c, "horizon", opts.Horizon, 0); err != nil {
		writeError(c, err)
		return
	}
	if opts.Window, err = intParam(c, "window", opts.Window, 1); err != nil {
		writeError(c, err)
		return
	}
	if opts.RemoveOutliers, err = boolParam(c, "outliers", opts.RemoveOutliers); err != nil {
		writeError(c, err)
		return
	}
	if opts.OutlierThreshold, err = thresholdParam(c, opts.OutlierThreshold); err != nil {
		writeError(c, err)
		return
	}

	p, err := report.BuildProjection(idx, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *APIHandler) Stats(c *gin.Context) {
	idx, err := h.store.GetIndex(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	sum, err := report.BuildSummary(idx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": idx.Name, "title": idx.Title, "summary": sum})
}

func (h *APIHandler) Day(c *gin.Context) {
	idx, err := h.store.GetIndex(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	day, err := report.BuildDay(idx, c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *APIHandler) Export(c *gin.Context) {
	idx, err := h.store.GetIndex(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	opts, err := h.chartOptions(c)
	if err != nil {
		writeError(c, err)
		return
	}
	chart, err := report.BuildChart(idx, opts)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, chart); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", idx.Name+".xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *APIHandler) Rebuild(c *gin.Context) {
	if h.rebuild == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "rebuild disabled"})
		return
	}
	// A client that hangs up does not abort the rebuild it started.
	stats, err := h.rebuild(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		log.Printf("[ERROR] rebuild via api: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":        stats.Items,
		"empty_items":  stats.EmptyItems,
		"observations": stats.Observations,
		"indexes":      stats.Indexes,
		"duration_ms":  stats.Duration.Milliseconds(),
		"built_at":     stats.BuiltAt,
	})
}

func (h *APIHandler) chartOptions(c *gin.Context) (report.ChartOptions, error) {
	opts := h.defaults.Chart
	if v := c.Query("windows"); v != "" {
		windows, err := config.ParseWindows(v)
		if err != nil {
			return opts, fmt.Errorf("windows: %v: %w", err, errBadParam)
		}
		opts.Windows = windows
	}
	var err error
	if opts.TrimDays, err = intParam(c, "trim", opts.TrimDays, 0); err != nil {
		return opts, err
	}
	if opts.RemoveOutliers, err = boolParam(c, "outliers", opts.RemoveOutliers); err != nil {
		return opts, err
	}
	if opts.OutlierThreshold, err = thresholdParam(c, opts.OutlierThreshold); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(c *gin.Context, key string, def, least int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < least {
		return 0, fmt.Errorf("%s=%q: want an integer >= %d: %w", key, v, least, errBadParam)
	}
	return n, nil
}

func boolParam(c *gin.Context, key string, def bool) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q: %w", key, v, errBadParam)
	}
	return b, nil
}

func thresholdParam(c *gin.Context, def float64) (float64, error) {
	v := c.Query("threshold")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0, fmt.Errorf("threshold=%q: want a positive number: %w", v, errBadParam)
	}
	return f, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadParam):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrIndexNotFound), errors.Is(err, report.ErrDayNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, calculator.ErrInsufficientData),
		errors.Is(err, calculator.ErrEmptyInput),
		errors.Is(err, calculator.ErrInvalidWindow),
		errors.Is(err, calculator.ErrInvalidHorizon),
		errors.Is(err, calculator.ErrDivideByZero),
		errors.Is(err, aggregator.ErrUnparseableDate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
