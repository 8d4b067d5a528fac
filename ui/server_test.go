package ui

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"qreport/app"
	"qreport/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csvHrefPattern = regexp.MustCompile(`href="data:text/csv;charset=utf-8;base64,([^"]+)"`)

func newTestServer(t *testing.T, maxUploadBytes int64) *Server {
	t.Helper()
	service := app.NewReportService(app.ReportServiceConfig{MaxBytes: maxUploadBytes})
	server, err := NewServer(service, Config{GinMode: "test", MaxUploadBytes: maxUploadBytes})
	require.NoError(t, err)
	return server
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersUploadForm(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Question Report Sheet Processor</title>")
	assert.Contains(t, body, `action="/upload"`)
	assert.Contains(t, body, `name="file"`)
	assert.Contains(t, body, "<strong>School Name</strong>")
	assert.NotContains(t, body, "Transformed Data")
}

func TestUploadRendersTableAndDownload(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, newUploadRequest(t, "/upload", "responses.csv", []byte(questionReportCSV)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Report-ID"))

	body := rec.Body.String()
	assert.Contains(t, body, "Transformed Data")
	assert.Contains(t, body, "<th>school_name</th><th>Q1</th><th>Q2</th>")
	assert.Contains(t, body, `download="transformed_question_report.csv"`)
	assert.Contains(t, body, `download="transformed_question_report.xlsx"`)

	match := csvHrefPattern.FindStringSubmatch(body)
	require.Len(t, match, 2, "download link not found")
	decoded, err := base64.StdEncoding.DecodeString(match[1])
	require.NoError(t, err)
	assert.Equal(t, transformedCSV, string(decoded))
}

func TestUploadMissingColumnsShowsDiagnostics(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, newUploadRequest(t, "/upload", "bad.csv", []byte("School,question,label\nLincoln,Q1,Yes\n")))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "The uploaded CSV must contain the columns: school name, question, question_response_label")
	assert.Contains(t, body, "Detected columns: school, question, label")
	assert.NotContains(t, body, "Download Transformed CSV")
	assert.Empty(t, rec.Header().Get("X-Report-ID"))
}

func TestUploadParseFailure(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, newUploadRequest(t, "/upload", "broken.csv", []byte("a,b\n1,2,3\n")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not parse uploaded file")
}

func TestUploadRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, 64)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		text   string
	}{
		{"no file", newEmptyFormRequest(t, "/upload"), http.StatusBadRequest, "No file uploaded"},
		{"wrong extension", newUploadRequest(t, "/upload", "notes.txt", []byte("x")), http.StatusBadRequest, "Only CSV (.csv) and Excel (.xlsx)"},
		{"too large", newUploadRequest(t, "/upload", "big.csv", []byte(strings.Repeat("a,b,c\n", 50))), http.StatusRequestEntityTooLarge, "exceeds the"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.text)
		})
	}
}

func TestUploadRequestOverLimit(t *testing.T) {
	s := newTestServer(t, 1<<20)

	big := []byte(strings.Repeat("a,b,c\n", 3<<20/6))
	rec := serve(s, newUploadRequest(t, "/upload", "big.csv", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request exceeds the 1 MB limit")
	assert.NotContains(t, rec.Body.String(), "File size")
}

func TestDownloadReturnsCSVAttachment(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, newUploadRequest(t, "/download", "responses.csv", []byte(questionReportCSV)))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="transformed_question_report.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, transformedCSV, rec.Body.String())
}

func TestDownloadXLSX(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, newUploadRequest(t, "/download?format=xlsx", "responses.csv", []byte(questionReportCSV)))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, report.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="transformed_question_report.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestDownloadUnknownFormat(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, newUploadRequest(t, "/download?format=pdf", "responses.csv", []byte(questionReportCSV)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadMissingColumnsProducesNoFile(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, newUploadRequest(t, "/download", "bad.csv", []byte("School Name,question\nLincoln,Q1\n")))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "MISSING_REQUIRED_COLUMNS", body["code"])
	assert.Equal(t, []interface{}{"question_response_label"}, body["missing"])
	assert.Equal(t, []interface{}{"school_name", "question"}, body["detected"])
}

func TestStaticAndHealth(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".table-wrap")

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html := string(renderMarkdown([]byte("**bold** <script>alert(1)</script>")))
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "<script>")
}
