package app

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"qreport/adapters/excel"
	"qreport/domain/core"
	"qreport/domain/dataset"
	"qreport/internal"
	"qreport/internal/errors"
	"qreport/internal/report"
)

// Format selects the encoding of the downloadable report
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv, xlsx and the excel alias; empty means csv
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unsupported format %q", s))
	}
}

// ReportService runs the upload -> validate -> pivot flow for one file
type ReportService struct {
	required     []report.RequiredColumn
	readerConfig excel.ReaderConfig
	maxBytes     int64
	logger       *internal.Logger
}

// ReportServiceConfig holds settings for NewReportService
type ReportServiceConfig struct {
	Required     []report.RequiredColumn
	ReaderConfig excel.ReaderConfig
	// MaxBytes caps the upload size; zero disables the check.
	MaxBytes int64
	Logger   *internal.Logger
}

// Upload is one user-submitted file
type Upload struct {
	Filename string
	File     io.Reader
}

// Report is the outcome of a successful upload
type Report struct {
	ID          core.ID
	Filename    string
	Fingerprint core.Hash
	Table       *report.WideTable
	Summary     report.Summary
	RuntimeMs   int64
}

// Payload is an encoded report ready to be offered for download
type Payload struct {
	Data        []byte
	ContentType string
	FileName    string
}

// NewReportService creates a report service
func NewReportService(cfg ReportServiceConfig) *ReportService {
	if len(cfg.Required) == 0 {
		cfg.Required = report.DefaultRequiredColumns
	}
	if cfg.ReaderConfig.Comma == 0 {
		cfg.ReaderConfig = excel.DefaultReaderConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = internal.DefaultLogger
	}
	return &ReportService{
		required:     cfg.Required,
		readerConfig: cfg.ReaderConfig,
		maxBytes:     cfg.MaxBytes,
		logger:       cfg.Logger,
	}
}

// Process reads, validates and pivots one upload.
//
// A missing-column upload yields an error carrying
// *report.MissingColumnsError (code MISSING_REQUIRED_COLUMNS); unreadable
// files yield PARSE_FAILED.
func (s *ReportService) Process(ctx context.Context, upload Upload) (*Report, error) {
	startTime := time.Now()
	reportID := core.NewID()

	fileType, ok := excel.DetectFileType(upload.Filename)
	if !ok {
		s.logger.Warn("[ReportService] %s rejected upload %q: unsupported extension", reportID.Short(), upload.Filename)
		return nil, errors.InvalidInput("only CSV (.csv) and Excel (.xlsx) files are supported")
	}

	data, err := s.readUpload(upload.File)
	if err != nil {
		if errors.GetCode(err) == errors.CodeInternalError {
			s.logger.Error("[ReportService] %s FAILED - reading %q: %v", reportID.Short(), upload.Filename, err)
		} else {
			s.logger.Warn("[ReportService] %s rejected %q: %v", reportID.Short(), upload.Filename, err)
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fingerprint := core.NewHash(data)
	s.logger.Debug("[ReportService] %s read %d bytes from %q (sha256 %s)", reportID.Short(), len(data), upload.Filename, fingerprint.Short())

	table, err := excel.NewDataReader(fileType, s.readerConfig).ReadData(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("[ReportService] %s FAILED - parse error for %q: %v", reportID.Short(), upload.Filename, err)
		return nil, errors.ParseFailed(err)
	}

	s.logger.Trace("[ReportService] %s headers %q", reportID.Short(), table.Headers)

	wide, err := s.Transform(table)
	if err != nil {
		s.logger.Warn("[ReportService] %s rejected %q: %v", reportID.Short(), upload.Filename, err)
		return nil, err
	}

	result := &Report{
		ID:          reportID,
		Filename:    upload.Filename,
		Fingerprint: fingerprint,
		Table:       wide,
		Summary:     report.Summarize(wide),
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}

	s.logger.Info("[ReportService] %s processed %q: %d rows in, %d entities x %d questions out, %d duplicates dropped (%dms)",
		reportID.Short(), upload.Filename, table.NumRows(), result.Summary.Entities, result.Summary.Questions, wide.Dropped, result.RuntimeMs)
	return result, nil
}

// Transform validates the headers of table and pivots it
func (s *ReportService) Transform(table *dataset.Table) (*report.WideTable, error) {
	cols, err := report.ValidateColumns(table.Headers, s.required)
	if err != nil {
		var missing *report.MissingColumnsError
		if stderrors.As(err, &missing) {
			return nil, errors.WithCode(errors.CodeMissingColumns, err)
		}
		return nil, errors.Wrap(err, "invalid required column configuration")
	}
	return report.Pivot(table, cols), nil
}

// Encode renders a report table in the requested download format
func (s *ReportService) Encode(t *dataset.Table, format Format) (*Payload, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV, "":
		if err := report.WriteCSV(&buf, t); err != nil {
			return nil, errors.Wrap(err, "failed to encode CSV report")
		}
		return &Payload{Data: buf.Bytes(), ContentType: report.CSVContentType, FileName: report.CSVFileName}, nil
	case FormatXLSX:
		if err := report.WriteXLSX(&buf, t); err != nil {
			return nil, errors.Wrap(err, "failed to encode XLSX report")
		}
		return &Payload{Data: buf.Bytes(), ContentType: report.XLSXContentType, FileName: report.XLSXFileName}, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported format %q", format))
	}
}

// MissingColumns extracts the validation failure from err, if that is what it is
func MissingColumns(err error) (*report.MissingColumnsError, bool) {
	var missing *report.MissingColumnsError
	if stderrors.As(err, &missing) {
		return missing, true
	}
	return nil, false
}

func (s *ReportService) readUpload(src io.Reader) ([]byte, error) {
	if src == nil {
		return nil, errors.InvalidInput("no file uploaded")
	}
	if s.maxBytes > 0 {
		src = io.LimitReader(src, s.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, errors.UploadTooLarge(int64(len(data)), s.maxBytes)
	}
	return data, nil
}
