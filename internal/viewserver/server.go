// Package viewserver serves the dashboard view over HTTP: a small HTML
// page, JSON and WebSocket views, the sparkline and history export, the
// restart and clear actions and the dashboard's own metrics.
package viewserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"wgdash/internal/dashboard"
	"wgdash/internal/metrics"
	"wgdash/internal/render"
)

const (
	sparkWidth  = 600
	sparkHeight = 120
	frameLogs   = 30
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server is the dashboard's HTTP surface.
type Server struct {
	session  *dashboard.Session
	restart  func(ctx context.Context)
	gatherer prometheus.Gatherer
	hub      *Hub
	log      zerolog.Logger
	engine   *gin.Engine
}

// New builds the router. restart is invoked for POST /actions/restart and
// gatherer backs GET /metrics; either may be nil.
func New(session *dashboard.Session, restart func(ctx context.Context), gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		session:  session,
		restart:  restart,
		gatherer: gatherer,
		log:      log.With().Str("component", "viewserver").Logger(),
	}
	s.hub = NewHub(session.View, s.log)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", s.page)
	r.GET("/view", s.view)
	r.GET("/frame.txt", s.frame)
	r.GET("/spark.svg", s.spark)
	r.GET("/history.csv", s.history)
	r.GET("/ws", s.ws)
	actions := r.Group("/actions")
	{
		actions.POST("/restart", s.restartAction)
		actions.POST("/timeline/clear", s.clearTimeline)
	}
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Hub returns the WebSocket hub; Publish it after every render.
func (s *Server) Hub() *Hub { return s.hub }

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info().Str("address", addr).Msg("view server listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func filtersFrom(c *gin.Context) dashboard.Filters {
	return dashboard.Filters{Logs: c.Query("logs"), Events: c.Query("events")}
}

func (s *Server) page(c *gin.Context) {
	f := filtersFrom(c)
	v := s.session.View(f)
	c.HTML(http.StatusOK, "page", gin.H{
		"View":    v,
		"Frame":   render.Frame(v, frameLogs),
		"Filters": f,
	})
}

func (s *Server) view(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, s.session.View(filtersFrom(c)))
}

func (s *Server) frame(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.String(http.StatusOK, render.Frame(s.session.View(filtersFrom(c)), frameLogs))
}

func (s *Server) spark(c *gin.Context) {
	v := s.session.View(dashboard.Filters{})
	w := queryFloat(c, "w", sparkWidth)
	h := queryFloat(c, "h", sparkHeight)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", []byte(render.Layout(v.History, v.HistoryCapacity, w, h).SVG()))
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v < 4 || v > 4096 {
		return def
	}
	return v
}

func (s *Server) history(c *gin.Context) {
	v := s.session.View(dashboard.Filters{})
	var buf bytes.Buffer
	if err := metrics.WriteCSV(&buf, v.Down, v.Up); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) ws(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("ws upgrade failed")
		return
	}
	s.hub.serve(conn, filtersFrom(c))
}

func (s *Server) restartAction(c *gin.Context) {
	if s.restart != nil {
		s.restart(c.Request.Context())
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearTimeline(c *gin.Context) {
	s.session.ClearTimeline()
	s.hub.Publish()
	c.Status(http.StatusNoContent)
}
