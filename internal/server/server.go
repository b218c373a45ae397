// Package server exposes the plugin's HTTP routes under its URL prefix:
// metadata, the UI shell and its assets, configuration and the live CoT socket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/html"

	"github.com/vcrobe/otsdebugger/internal/config"
	"github.com/vcrobe/otsdebugger/internal/plugin"
)

// mountID is the element the UI bundle mounts into; the base path is
// written onto it so the client router knows its prefix.
const mountID = "app"

// Server serves one plugin.
type Server struct {
	echo   *echo.Echo
	plugin *plugin.Plugin
	logger *slog.Logger
}

// New builds the Echo instance and registers every route under the plugin prefix.
func New(p *plugin.Plugin, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		echo:   echo.New(),
		plugin: p,
		logger: logger.With("component", "http"),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				s.logger.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.Info("request", attrs...)
			return nil
		},
	}))

	g := e.Group(p.URLPrefix())
	g.GET("", s.pluginInfo)
	g.GET("/", s.pluginInfo)
	g.GET("/ui", s.ui)
	g.GET("/ui/:file", s.serve)
	g.GET("/assets/:file", s.serve)
	g.GET("/config", s.getConfig)
	g.POST("/config", s.updateConfig)
	g.GET("/debugger", echo.WrapHandler(p.Hub()))

	p.SetRoutes(s.Routes())
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Routes lists "METHOD path" for every registered route, sorted.
func (s *Server) Routes() []string {
	var out []string
	for _, r := range s.echo.Routes() {
		out = append(out, r.Method+" "+r.Path)
	}
	sort.Strings(out)
	return out
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr, "prefix", s.plugin.URLPrefix())
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request().URL.Path, "error", err)
	}
	if err := c.JSON(code, result{Success: false, Error: msg}); err != nil {
		s.logger.Error("write error response", "error", err)
	}
}

func (s *Server) pluginInfo(c echo.Context) error {
	meta := s.plugin.Metadata()
	if meta.Name == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Plugin not found")
	}
	return c.JSON(http.StatusOK, meta)
}

func (s *Server) uiDir() string {
	return s.plugin.Config().String(config.KeyUIDir)
}

// ui serves the UI shell with the plugin prefix written onto the mount element.
func (s *Server) ui(c echo.Context) error {
	f, err := os.Open(filepath.Join(s.uiDir(), "index.html"))
	if errors.Is(err, os.ErrNotExist) {
		return echo.NewHTTPError(http.StatusNotFound, "UI is not built")
	}
	if err != nil {
		return fmt.Errorf("open index.html: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return fmt.Errorf("parse index.html: %w", err)
	}
	if !setAttr(doc, mountID, "data-base-path", s.plugin.URLPrefix()) {
		s.logger.Warn("index.html has no mount element", "id", mountID)
	}

	var body strings.Builder
	if err := html.Render(&body, doc); err != nil {
		return fmt.Errorf("render index.html: %w", err)
	}
	return c.HTML(http.StatusOK, body.String())
}

// setAttr sets key=val on the element with the given id, replacing any
// existing value. It reports whether the element was found.
func setAttr(n *html.Node, id, key, val string) bool {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		for i := range n.Attr {
			if n.Attr[i].Key == key {
				n.Attr[i].Val = val
				return true
			}
		}
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if setAttr(c, id, key, val) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// serve looks a file up in ui/assets first and then in ui.
func (s *Server) serve(c echo.Context) error {
	name := c.Param("file")
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return c.String(http.StatusNotFound, "")
	}

	root := s.uiDir()
	for _, dir := range []string{filepath.Join(root, "assets"), root} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return c.File(path)
		}
		s.logger.Warn("file does not exist", "file", name, "dir", dir)
	}
	return c.String(http.StatusNotFound, "")
}

func (s *Server) getConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, s.plugin.Config().Snapshot())
}

func (s *Server) updateConfig(c echo.Context) error {
	var changes map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&changes); err != nil {
		return c.JSON(http.StatusBadRequest, result{Error: "invalid JSON body: " + err.Error()})
	}
	if err := s.plugin.Config().Update(changes); err != nil {
		s.logger.Warn("failed to update config", "error", err)
		return c.JSON(http.StatusBadRequest, result{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, result{Success: true})
}
