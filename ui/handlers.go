package ui

import (
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"qreport/app"
	"qreport/internal/errors"
	"qreport/internal/report"

	"github.com/gin-gonic/gin"
)

// uploadField is the multipart field carrying the file
const uploadField = "file"

type pageData struct {
	Title       string
	Help        template.HTML
	MaxUploadMB int64
	Filename    string
	Errors      []string
	Result      *resultView
}

type resultView struct {
	ReportID     string
	Columns      []string
	Rows         [][]string
	Summary      report.Summary
	CSVHref      template.URL
	CSVFileName  string
	XLSXHref     template.URL
	XLSXFileName string
}

func (s *Server) newPage() pageData {
	return pageData{
		Title:       "Question Report Sheet Processor",
		Help:        s.help,
		MaxUploadMB: s.config.MaxUploadBytes / (1024 * 1024),
	}
}

// handleIndex renders the upload form
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.newPage())
}

// handleUpload processes one file and renders the pivoted table or the
// validation diagnostics
func (s *Server) handleUpload(c *gin.Context) {
	page := s.newPage()

	rep, err := s.processUpload(c)
	if err != nil {
		page.Errors = errorMessages(err)
		s.renderTemplate(c, statusForError(err), "index.html", page)
		return
	}
	page.Filename = rep.Filename
	c.Header("X-Report-ID", rep.ID.String())

	table := rep.Table.Table()
	csvPayload, err := s.service.Encode(table, app.FormatCSV)
	if err != nil {
		log.Printf("[handleUpload] FAILED - CSV encoding failed: %v", err)
		page.Errors = []string{"Could not prepare the download. Please try again."}
		s.renderTemplate(c, http.StatusInternalServerError, "index.html", page)
		return
	}
	xlsxPayload, err := s.service.Encode(table, app.FormatXLSX)
	if err != nil {
		log.Printf("[handleUpload] XLSX encoding failed, offering CSV only: %v", err)
		xlsxPayload = nil
	}

	page.Result = &resultView{
		ReportID:    rep.ID.String(),
		Columns:     rep.Table.Columns,
		Rows:        rep.Table.Rows,
		Summary:     rep.Summary,
		CSVHref:     dataURI(csvPayload.ContentType+";charset=utf-8", csvPayload.Data),
		CSVFileName: csvPayload.FileName,
	}
	if xlsxPayload != nil {
		page.Result.XLSXHref = dataURI(xlsxPayload.ContentType, xlsxPayload.Data)
		page.Result.XLSXFileName = xlsxPayload.FileName
	}

	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

// handleDownload processes one file and returns the encoded report as an attachment
func (s *Server) handleDownload(c *gin.Context) {
	format, err := app.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := s.processUpload(c)
	if err != nil {
		body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}
		if missing, ok := app.MissingColumns(err); ok {
			body["messages"] = missing.Messages()
			body["missing"] = missing.Missing
			body["detected"] = missing.Detected
		}
		c.JSON(statusForError(err), body)
		return
	}

	payload, err := s.service.Encode(rep.Table.Table(), format)
	if err != nil {
		log.Printf("[handleDownload] FAILED - encoding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode report"})
		return
	}

	c.Header("X-Report-ID", rep.ID.String())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.FileName))
	contentType := payload.ContentType
	if format == app.FormatCSV {
		contentType += "; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, payload.Data)
}

// processUpload pulls the single uploaded file out of the request and runs it
// through the report service
func (s *Server) processUpload(c *gin.Context) (*app.Report, error) {
	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			log.Printf("[processUpload] FAILED - request body over limit")
			return nil, errors.RequestTooLarge(s.config.MaxUploadBytes)
		}
		log.Printf("[processUpload] FAILED - No file uploaded: %v", err)
		return nil, errors.InvalidInput("no file uploaded")
	}
	defer file.Close()

	if s.config.MaxUploadBytes > 0 && header.Size > s.config.MaxUploadBytes {
		log.Printf("[processUpload] FAILED - File too large: %d bytes", header.Size)
		return nil, errors.UploadTooLarge(header.Size, s.config.MaxUploadBytes)
	}

	return s.service.Process(c.Request.Context(), app.Upload{Filename: header.Filename, File: file})
}

// errorMessages turns a processing error into the lines shown to the user
func errorMessages(err error) []string {
	if missing, ok := app.MissingColumns(err); ok {
		return missing.Messages()
	}
	switch errors.GetCode(err) {
	case errors.CodeParseFailed:
		if cause := stderrors.Unwrap(err); cause != nil {
			return []string{"Could not parse uploaded file: " + cause.Error()}
		}
		return []string{"Could not parse uploaded file."}
	case errors.CodeInvalidInput, errors.CodeUploadTooLarge:
		return []string{capitalize(err.Error())}
	default:
		return []string{"Something went wrong while processing the file."}
	}
}

// statusForError maps error codes onto HTTP status codes
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeMissingColumns:
		return http.StatusUnprocessableEntity
	case errors.CodeParseFailed, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func dataURI(contentType string, data []byte) template.URL {
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
