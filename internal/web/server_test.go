package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"po-extractor/internal/aggregate"
	"po-extractor/internal/app"
	"po-extractor/internal/models"
	"po-extractor/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeExtractor struct {
	outcome *app.Outcome
	err     error
	calls   int
	input   models.RunInput
}

func (f *fakeExtractor) Extract(_ context.Context, in models.RunInput) (*app.Outcome, error) {
	f.calls++
	f.input = in
	return f.outcome, f.err
}

func newTestServer(ex Extractor) *Server {
	s := NewServer(ex, "Purchase Orders", "out/purchase_order_summary.xlsx")
	s.now = func() time.Time { return time.Date(2025, time.March, 31, 12, 0, 0, 0, time.Local) }
	return s
}

func postForm(t *testing.T, s *Server, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"email":    {"buyer@example.com"},
		"password": {"app-password"},
		"from":     {"2025-03-01"},
		"to":       {"2025-03-31"},
	}
}

func TestShowForm(t *testing.T) {
	s := newTestServer(&fakeExtractor{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="password"`)
	assert.Contains(t, body, `value="2025-03-01"`)
	assert.Contains(t, body, `value="2025-03-31"`)
}

func TestExtract_MissingCredential(t *testing.T) {
	ex := &fakeExtractor{}
	s := newTestServer(ex)

	form := validForm()
	form.Del("password")
	w := postForm(t, s, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "please enter both email address and app password")
	assert.Zero(t, ex.calls)
}

func TestExtract_BadDates(t *testing.T) {
	ex := &fakeExtractor{}
	s := newTestServer(ex)

	form := validForm()
	form.Set("to", "2025-02-01")
	w := postForm(t, s, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "end date is before start date")
	assert.Zero(t, ex.calls)
}

func TestExtract_Download(t *testing.T) {
	ex := &fakeExtractor{outcome: &app.Outcome{
		Rows:    []models.FlatRow{{OrderNumber: "4500012345", ItemDescription: "Bolt"}},
		Summary: report.Summary{Messages: 1, Records: 1, Rows: 1},
	}}
	s := newTestServer(ex)

	w := postForm(t, s, validForm())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="purchase_order_summary.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	v, err := f.GetCellValue("Purchase Orders", "E2")
	require.NoError(t, err)
	assert.Equal(t, "4500012345", v)

	assert.Equal(t, "buyer@example.com", ex.input.Address)
	assert.Equal(t, "app-password", ex.input.Credential.Reveal())
	assert.True(t, ex.input.Range.Contains(time.Date(2025, time.March, 31, 23, 0, 0, 0, time.Local)))
}

func TestExtract_EmptyResult(t *testing.T) {
	s := newTestServer(&fakeExtractor{outcome: &app.Outcome{Summary: report.Summary{Messages: 4}}})

	w := postForm(t, s, validForm())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "No matching emails with PDF attachments found in that range.")
	assert.Contains(t, w.Body.String(), "4 messages scanned")
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"mailbox", &aggregate.MailboxError{Op: "login", Err: errors.New("denied")}, http.StatusBadGateway},
		{"invalid input", aggregate.ErrInvalidInput, http.StatusBadRequest},
		{"other", errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeExtractor{err: tt.err})

			w := postForm(t, s, validForm())

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), "Run failed")
			assert.NotContains(t, w.Body.String(), "app-password")
		})
	}
}
