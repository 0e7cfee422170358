// Package report writes the year ledger to storage in the supported formats.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/divtax/internal/fileutils"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/models"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReportGenerator renders and saves ledgers.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{logger: logger}
}

// GenerateReport renders report as json (2-space indent, non-ASCII kept) or yaml.
func (g *ReportGenerator) GenerateReport(report *models.Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatYAML, "yml":
		return g.generateYAMLReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) generateYAMLReport(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns the ledger file name of a year, e.g. divs_2025.json.
func FileName(year, format string) string {
	ext := strings.ToLower(format)
	if ext == "yml" {
		ext = FormatYAML
	}
	return fmt.Sprintf("divs_%s.%s", year, ext)
}

// Save renders report and writes it to outDir/divs_<year>.<format>,
// creating outDir when needed. It returns the written path.
func (g *ReportGenerator) Save(report *models.Report, outDir, year, format string) (string, error) {
	data, err := g.GenerateReport(report, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, FileName(year, format))
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	g.logger.Info("Saved report",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldFormat, Value: format})
	return path, nil
}
