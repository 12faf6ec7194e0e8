package ui

import (
	"bytes"
	"math"
	"net/http"
	"strconv"

	"barstack/domain/core"
	"barstack/domain/dataset"
	internaldataset "barstack/internal/dataset"
	apperrors "barstack/internal/errors"
	"barstack/internal/layout"
	"barstack/internal/render"

	"github.com/gin-gonic/gin"
)

type datasetInfo struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	XAxisLabel string   `json:"xAxisLabel,omitempty"`
	YAxisLabel string   `json:"yAxisLabel,omitempty"`
	Sort       string   `json:"sort"`
	SubGroups  []string `json:"xValSubGroups"`
	Rows       int      `json:"rows"`
}

type selectionRequest struct {
	Key string `json:"key" binding:"required"`
}

type viewportRequest struct {
	SessionID string  `json:"session_id" binding:"required"`
	Width     float64 `json:"width" binding:"required"`
	Dataset   string  `json:"dataset"`
}

func (s *Server) handleIndex(c *gin.Context) {
	if s.loadErr != nil {
		s.renderTemplate(c, http.StatusServiceUnavailable, "failed.html", gin.H{"Code": apperrors.GetCode(s.loadErr)})
		return
	}
	s.renderTemplate(c, http.StatusOK, "index.html", gin.H{
		"Keys":      s.selector.Keys(),
		"Active":    s.selector.Key(),
		"SessionID": core.NewSessionID().String(),
	})
}

func (s *Server) handleChart(c *gin.Context) {
	key, entry, err := s.selector.Resolve(c.Query("dataset"))
	if err != nil {
		writeError(c, err)
		return
	}
	width, err := parseWidth(c.Query("width"), s.opts.DefaultWidth)
	if err != nil {
		writeError(c, err)
		return
	}
	session := core.SessionID(c.Query("session_id"))
	if session == "" {
		session = core.NewSessionID()
	}

	l, err := layout.Compute(entry.Data, entry.Metadata, width, s.opts.Props)
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := render.RenderPage(&buf, entry, l, render.PageOptions{
		SessionID:   session,
		ViewportURL: "/api/viewport",
		EventsURL:   "/api/events",
	}); err != nil {
		writeError(c, apperrors.Wrapf(err, "failed to render %q", key))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleListDatasets(c *gin.Context) {
	keys := s.selector.Keys()
	infos := make([]datasetInfo, 0, len(keys))
	for _, key := range keys {
		entry, err := s.selector.Lookup(key)
		if err != nil {
			writeError(c, err)
			return
		}
		infos = append(infos, describe(key, entry))
	}
	c.JSON(http.StatusOK, gin.H{
		"keys":     keys,
		"active":   s.selector.Key(),
		"datasets": infos,
	})
}

func (s *Server) handleGetDataset(c *gin.Context) {
	entry, err := s.selector.Lookup(c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry.Data)
}

func (s *Server) handleDatasetSummary(c *gin.Context) {
	key := c.Param("key")
	entry, err := s.selector.Lookup(key)
	if err != nil {
		writeError(c, err)
		return
	}
	totals, err := internaldataset.Aggregate(entry.Data)
	if err != nil {
		writeError(c, err)
		return
	}
	summary, err := internaldataset.Summarize(totals)
	if err != nil {
		writeError(c, apperrors.Wrap(err, "failed to summarize totals"))
		return
	}
	extent, err := internaldataset.Extent(entry.Data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":     key,
		"totals":  totals,
		"extent":  extent,
		"summary": summary,
	})
}

func (s *Server) handleLayout(c *gin.Context) {
	_, entry, err := s.selector.Resolve(c.Query("dataset"))
	if err != nil {
		writeError(c, err)
		return
	}
	width, err := parseWidth(c.Query("width"), s.opts.DefaultWidth)
	if err != nil {
		writeError(c, err)
		return
	}
	l, err := layout.Compute(entry.Data, entry.Metadata, width, s.opts.Props)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) handleTooltip(c *gin.Context) {
	_, entry, err := s.selector.Resolve(c.Query("dataset"))
	if err != nil {
		writeError(c, err)
		return
	}
	row, err := strconv.Atoi(c.Query("row"))
	if err != nil {
		writeError(c, apperrors.InvalidInput("row must be an integer"))
		return
	}
	text, err := layout.Tooltip(entry, row, c.Query("subgroup"))
	if err != nil {
		writeError(c, &apperrors.AppError{Code: apperrors.CodeInvalidInput, Message: "no such segment", Cause: err})
		return
	}

	resp := gin.H{"text": text}
	// placement is optional: only when the caller sends pointer and size
	if pos, ok := tooltipPlacement(c); ok {
		resp["position"] = pos
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSetSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidInput("body must be {\"key\": \"<dataset>\"}"))
		return
	}
	if err := s.selector.Set(req.Key); err != nil {
		s.logger.Warn("selection %q rejected, keeping %q", req.Key, s.selector.Key())
		writeError(c, err)
		return
	}
	s.logger.Debug("selected %q", req.Key)
	c.JSON(http.StatusOK, gin.H{"active": s.selector.Key()})
}

// handleViewport records a resize. Bursts from one session collapse into a single layout
// pass once the session has been quiet for the debounce window.
func (s *Server) handleViewport(c *gin.Context) {
	var req viewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.InvalidInput("body must be {\"session_id\": \"...\", \"width\": <px>}"))
		return
	}
	session, err := core.ParseSessionID(req.SessionID)
	if err != nil {
		writeError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	if !validWidth(req.Width) {
		writeError(c, apperrors.InvalidInput("width must be a positive number"))
		return
	}
	if _, _, err := s.selector.Resolve(req.Dataset); err != nil {
		writeError(c, err)
		return
	}

	width, key := req.Width, req.Dataset
	s.debouncer.Trigger(session.String(), func() {
		_, entry, err := s.selector.Resolve(key)
		if err != nil {
			s.logger.Warn("viewport update for %s dropped: %v", session, err)
			return
		}
		l, err := layout.Compute(entry.Data, entry.Metadata, width, s.opts.Props)
		if err != nil {
			s.logger.Error("layout for %s failed: %v", session, err)
			return
		}
		s.notifier.NotifyHeight(session, l.ContentHeight())
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

// handleEvents streams height events. Once a session's last stream closes, a resize still
// waiting for its debounce window has nobody to report to and is dropped.
func (s *Server) handleEvents(c *gin.Context) {
	s.hub.HandleSSE(c)
	session := core.SessionID(c.Query("session_id"))
	if session != "" && s.hub.GetClientCount(session) == 0 {
		s.debouncer.Cancel(session.String())
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	status, datasets := "ok", 0
	if s.loadErr != nil {
		status = "degraded"
	} else {
		datasets = len(s.selector.Keys())
	}
	body := gin.H{
		"status":          status,
		"datasets":        datasets,
		"sessions":        s.hub.GetActiveSessions(),
		"pending_resizes": s.debouncer.Pending(),
	}
	if s.loadErr != nil {
		body["code"] = apperrors.GetCode(s.loadErr)
	}
	c.JSON(http.StatusOK, body)
}

func describe(key string, entry dataset.Entry) datasetInfo {
	info := datasetInfo{
		Key:        key,
		Label:      entry.Metadata.Label,
		XAxisLabel: entry.Metadata.XAxisLabel,
		YAxisLabel: entry.Metadata.YAxisLabel,
		Sort:       entry.Metadata.SortName(),
	}
	if entry.Data != nil {
		info.SubGroups = entry.Data.SubGroups
		info.Rows = len(entry.Data.Rows)
	}
	return info
}

func tooltipPlacement(c *gin.Context) (layout.TooltipPosition, bool) {
	var vals [4]float64
	for i, name := range []string{"x", "y", "tooltip_width", "viewport_width"} {
		v, err := strconv.ParseFloat(c.Query(name), 64)
		if err != nil {
			return layout.TooltipPosition{}, false
		}
		vals[i] = v
	}
	return layout.PlaceTooltip(vals[0], vals[1], vals[2], vals[3]), true
}

func parseWidth(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validWidth(w) {
		return 0, apperrors.InvalidInput("width must be a positive number")
	}
	return w, nil
}

func validWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
}
