package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"GasSentinel/internal/analyzer"
	"GasSentinel/internal/calculator"
	"GasSentinel/internal/exporter"
	"GasSentinel/internal/model"
)

// LatestSource exposes the most recently ingested sample.
type LatestSource interface {
	LatestSample() (model.Sample, bool)
}

// Server is the read-only HTTP view over the analyzer, plus export triggers.
type Server struct {
	Analyzer   *analyzer.Analyzer
	Latest     LatestSource
	Exporter   *exporter.Exporter
	Thresholds model.Thresholds

	log  logrus.FieldLogger
	http *http.Server
}

// New creates a Server. Call Router for tests or Start to listen.
func New(an *analyzer.Analyzer, latest LatestSource, exp *exporter.Exporter, thresholds model.Thresholds, logger logrus.FieldLogger) *Server {
	return &Server{
		Analyzer:   an,
		Latest:     latest,
		Exporter:   exp,
		Thresholds: thresholds,
		log:        logger,
	}
}

// Router builds the gin engine.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	gas := r.Group("/api/v1/gas")
	gas.GET("/latest", s.handleLatest)
	gas.GET("/history", s.handleHistory)
	gas.GET("/average", s.handleAverage)
	gas.GET("/trend", s.handleTrend)
	gas.GET("/recommendation", s.handleRecommendation)
	gas.GET("/stats", s.handleStats)

	exports := r.Group("/api/v1/exports")
	exports.GET("", s.handleExportsList)
	exports.POST("/json", s.handleExportJSON)
	exports.POST("/csv", s.handleExportCSV)

	return r
}

// Start listens on addr in the background.
func (s *Server) Start(addr string) {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		s.log.Infof("http api listening on %s", addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("http api: %v", err)
		}
	}()
}

// Shutdown stops the listener started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("http request")
	}
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func (s *Server) handleLatest(c *gin.Context) {
	sample, ok := s.Latest.LatestSample()
	if !ok {
		errorJSON(c, http.StatusNotFound, "no data available yet")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sample": sample,
		"date":   calculator.FormatTimestamp(sample.Timestamp),
		"level":  calculator.ClassifyLevel(sample.Standard, s.Thresholds),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	history := s.Analyzer.History()
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errorJSON(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < len(history) {
			history = history[len(history)-n:]
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(history),
		"limit": s.Analyzer.Limit(),
		"data":  history,
	})
}

func (s *Server) handleAverage(c *gin.Context) {
	hours := 1.0
	if raw := c.Query("hours"); raw != "" {
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(h) || h <= 0 {
			errorJSON(c, http.StatusBadRequest, "hours must be a positive number")
			return
		}
		hours = h
	}
	avg, ok := s.Analyzer.AveragePrice(hours)
	if !ok {
		errorJSON(c, http.StatusNotFound, "no data in window")
		return
	}
	// Report the window actually covered; +Inf has no JSON encoding.
	if maxHours := float64(s.Analyzer.Limit()) / analyzer.PointsPerHour; hours > maxHours {
		hours = maxHours
	}
	c.JSON(http.StatusOK, gin.H{"hours": hours, "average": avg})
}

func (s *Server) handleTrend(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"trend": s.Analyzer.Trend()})
}

func (s *Server) handleRecommendation(c *gin.Context) {
	rec := s.Analyzer.Recommend()
	c.JSON(http.StatusOK, gin.H{
		"recommendation": rec,
		"message":        rec.Label.Message(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.Analyzer.Statistics()
	if err != nil {
		errorJSON(c, http.StatusNotFound, "no data available yet")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":      s.Analyzer.Len(),
		"statistics": stats,
	})
}

func (s *Server) handleExportsList(c *gin.Context) {
	files, err := s.Exporter.ListExports()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) handleExportJSON(c *gin.Context) {
	s.export(c, s.Exporter.ExportJSON)
}

func (s *Server) handleExportCSV(c *gin.Context) {
	s.export(c, s.Exporter.ExportCSV)
}

func (s *Server) export(c *gin.Context, fn func(string) (*exporter.Result, error)) {
	res, err := fn(c.Query("filename"))
	if errors.Is(err, model.ErrNoData) {
		errorJSON(c, http.StatusConflict, "no data to export")
		return
	}
	if err != nil {
		s.log.Errorf("export: %v", err)
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Infof("exported %d records to %s", res.RecordCount, res.Path)
	c.JSON(http.StatusCreated, res)
}
