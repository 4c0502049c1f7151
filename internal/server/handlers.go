package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/cropinsights/internal/aggregate"
	"github.com/KaramelBytes/cropinsights/internal/analysis"
	"github.com/KaramelBytes/cropinsights/internal/chart"
	"github.com/KaramelBytes/cropinsights/internal/dataset"
	"github.com/KaramelBytes/cropinsights/internal/options"
	"github.com/KaramelBytes/cropinsights/internal/parser"
	"github.com/KaramelBytes/cropinsights/internal/selection"
)

func abortError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// current fetches the active snapshot or writes a 404.
func (s *Server) current(c *gin.Context) (*dataset.Snapshot, bool) {
	snap, err := s.store.Current()
	if err != nil {
		abortError(c, http.StatusNotFound, err)
		return nil, false
	}
	return snap, true
}

func filterFromQuery(c *gin.Context) selection.Filter {
	return selection.Filter{
		State:    strings.TrimSpace(c.Query("state")),
		District: strings.TrimSpace(c.Query("district")),
		Crop:     strings.TrimSpace(c.Query("crop")),
		Season:   strings.TrimSpace(c.Query("season")),
	}
}

// UploadDataset parses a multipart "file" and replaces the active snapshot.
// POST /api/dataset
func (s *Server) UploadDataset(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.cfg.MaxUploadMB)<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortError(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		abortError(c, http.StatusBadRequest, errors.New("missing upload field \"file\""))
		return
	}
	f, err := fh.Open()
	if err != nil {
		abortError(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	opt := parser.Options{SheetIndex: s.cfg.DefaultSheetIndex}
	if sheet := strings.TrimSpace(c.PostForm("sheet")); sheet != "" {
		if i, err := strconv.Atoi(sheet); err == nil {
			opt.SheetIndex = i
		} else {
			opt.SheetName = sheet
		}
	}
	tbl, err := parser.ParseReader(fh.Filename, f, opt)
	if err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	snap := s.store.Replace(fh.Filename, tbl.Rows)
	s.log.Info("dataset replaced",
		zap.String("id", snap.ID),
		zap.String("source", snap.Source),
		zap.Int("records", snap.Len()))
	c.JSON(http.StatusOK, gin.H{
		"dataset": snap,
		"profile": analysis.Profile(fh.Filename, tbl.Header, tbl.Rows),
	})
}

// GetDataset returns the active snapshot metadata.
// GET /api/dataset
func (s *Server) GetDataset(c *gin.Context) {
	snap, ok := s.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset": snap, "records": snap.Len()})
}

// ClearDataset drops the active snapshot; the views report 404 afterwards.
// DELETE /api/dataset
func (s *Server) ClearDataset(c *gin.Context) {
	s.store.Clear()
	s.log.Info("dataset cleared")
	c.Status(http.StatusNoContent)
}

// Dashboard serves the filtered record table.
// GET /api/dashboard?state=&district=&crop=
func (s *Server) Dashboard(c *gin.Context) {
	snap, ok := s.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.DashboardView(snap, filterFromQuery(c)))
}

// Insights serves metrics and chart series.
// GET /api/insights?state=&district=&crop=&season=
func (s *Server) Insights(c *gin.Context) {
	snap, ok := s.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.InsightsView(snap, filterFromQuery(c)))
}

// Assistant serves the heuristic result.
// GET /api/assistant?state=&crop=&area=
func (s *Server) Assistant(c *gin.Context) {
	snap, ok := s.current(c)
	if !ok {
		return
	}
	var area float64
	if raw := strings.TrimSpace(c.Query("area")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			abortError(c, http.StatusBadRequest, errors.New("area must be a non-negative number"))
			return
		}
		area = v
	}
	c.JSON(http.StatusOK, analysis.AssistantView(snap, filterFromQuery(c), area))
}

// Map serves per-state crop lists.
// GET /api/map?state=
func (s *Server) Map(c *gin.Context) {
	snap, ok := s.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analysis.MapView(snap, strings.TrimSpace(c.Query("state"))))
}

// SelectionRequest changes one field of a view's filter.
type SelectionRequest struct {
	Filter selection.Filter `json:"filter"`
	Field  string           `json:"field" binding:"required"`
	Value  string           `json:"value"`
}

// Select applies the view's cascading reset rules and returns the new
// filter, plus refreshed option lists when a dataset is loaded.
// POST /api/selection/:view
func (s *Server) Select(c *gin.Context) {
	view := selection.View(c.Param("view"))
	rules, err := selection.RulesFor(view)
	if err != nil {
		abortError(c, http.StatusNotFound, err)
		return
	}
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	field, err := selection.ParseField(req.Field)
	if err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	next := req.Filter.Set(rules, field, req.Value)
	resp := gin.H{"view": view, "filter": next}
	if snap, err := s.store.Current(); err == nil {
		resp["options"] = optionsFor(view, snap, next)
	}
	c.JSON(http.StatusOK, resp)
}

func optionsFor(view selection.View, snap *dataset.Snapshot, f selection.Filter) any {
	recs := snap.Records
	switch view {
	case selection.ViewDashboard:
		return options.ForDashboard(recs, f.State, f.District)
	case selection.ViewInsights:
		return options.ForInsights(recs, f.State)
	case selection.ViewAssistant:
		return options.ForAssistant(recs, f.State)
	default:
		return options.ForMap(recs)
	}
}

// Chart renders one insights series as an image.
// GET /api/charts/:kind?format=png|svg&state=...
func (s *Server) Chart(c *gin.Context) {
	kind, err := chart.ParseKind(c.Param("kind"))
	if err != nil {
		abortError(c, http.StatusNotFound, err)
		return
	}
	snap, ok := s.current(c)
	if !ok {
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "png"))
	contentType := "image/png"
	switch format {
	case "png":
	case "svg":
		contentType = "image/svg+xml"
	default:
		abortError(c, http.StatusBadRequest, errors.New("format must be png or svg"))
		return
	}

	view := analysis.InsightsView(snap, filterFromQuery(c))
	var buf bytes.Buffer
	err = chart.Render(&buf, kind, seriesFor(kind, view), chart.Options{
		WidthIn:  s.cfg.ChartWidthIn,
		HeightIn: s.cfg.ChartHeightIn,
		Format:   format,
	})
	if err != nil {
		if errors.Is(err, chart.ErrNoData) {
			abortError(c, http.StatusNotFound, err)
			return
		}
		abortError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func seriesFor(kind chart.Kind, v analysis.Insights) []aggregate.Point {
	switch kind {
	case chart.KindShare:
		return v.CropShare
	case chart.KindTrend:
		return v.Trend
	default:
		return v.ProductionByDistrict
	}
}
