// Package web serves the extraction form in a local browser and returns the
// spreadsheet as a download.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"po-extractor/internal/aggregate"
	"po-extractor/internal/app"
	"po-extractor/internal/export"
	"po-extractor/internal/logging"
	"po-extractor/internal/models"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// Extractor is implemented by *app.Extractor
type Extractor interface {
	Extract(ctx context.Context, in models.RunInput) (*app.Outcome, error)
}

type Server struct {
	engine    *gin.Engine
	extractor Extractor
	sheet     string
	filename  string
	now       func() time.Time
}

// NewServer builds the router. filename is the download name of the workbook.
func NewServer(extractor Extractor, sheet, filename string) *Server {
	s := &Server{
		extractor: extractor,
		sheet:     sheet,
		filename:  filepath.Base(filename),
		now:       time.Now,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(pageTemplate)

	r.GET("/", s.showForm)
	r.POST("/extract", s.extract)

	s.engine = r
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve listens on addr until ctx is done
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Log.Infof("Serving extraction form on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) showForm(c *gin.Context) {
	r := models.DefaultDateRange(s.now())
	c.HTML(http.StatusOK, "page", pageData{
		From: r.From.Format(dateLayout),
		To:   r.To.Format(dateLayout),
	})
}

func (s *Server) extract(c *gin.Context) {
	data := pageData{
		Email: strings.TrimSpace(c.PostForm("email")),
		From:  c.PostForm("from"),
		To:    c.PostForm("to"),
	}

	in, err := parseInput(data, c.PostForm("password"))
	if err != nil {
		s.notice(c, http.StatusBadRequest, data, "warning", err.Error(), "")
		return
	}

	outcome, err := s.extractor.Extract(c.Request.Context(), in)
	if err != nil {
		status := http.StatusInternalServerError
		var mbErr *aggregate.MailboxError
		switch {
		case errors.Is(err, aggregate.ErrInvalidInput):
			status = http.StatusBadRequest
		case errors.As(err, &mbErr):
			status = http.StatusBadGateway
		}
		logging.Log.WithError(err).Error("Extraction failed")
		s.notice(c, status, data, "error", fmt.Sprintf("Run failed: %v", err), "")
		return
	}

	if outcome.Summary.Empty() {
		s.notice(c, http.StatusOK, data, "warning", outcome.Summary.Message(), outcome.Summary.Details())
		return
	}

	xlsx, err := export.Bytes(outcome.Rows, s.sheet)
	if err != nil {
		logging.Log.WithError(err).Error("Export failed")
		s.notice(c, http.StatusInternalServerError, data, "error", fmt.Sprintf("Export failed: %v", err), "")
		return
	}

	logging.Log.Info(outcome.Summary.Message())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.filename))
	c.Data(http.StatusOK, export.ContentType, xlsx)
}

func (s *Server) notice(c *gin.Context, status int, data pageData, level, notice, details string) {
	data.Level = level
	data.Notice = notice
	data.Details = details
	c.HTML(status, "page", data)
}

func parseInput(data pageData, password string) (models.RunInput, error) {
	in := models.RunInput{Address: data.Email, Credential: models.Secret(password)}
	if in.Address == "" || in.Credential == "" {
		return in, errors.New("please enter both email address and app password")
	}

	from, err := time.ParseInLocation(dateLayout, data.From, time.Local)
	if err != nil {
		return in, fmt.Errorf("invalid start date %q", data.From)
	}
	to, err := time.ParseInLocation(dateLayout, data.To, time.Local)
	if err != nil {
		return in, fmt.Errorf("invalid end date %q", data.To)
	}

	in.Range = models.NewDateRange(from, to)
	return in, in.Validate()
}

// requestLogger logs method, path, status and latency. Form values are never logged.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Log.WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(start).String()).
			Infof("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
