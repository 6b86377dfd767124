package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"legalease-backend/internal/logger"
	"legalease-backend/models"
)

// ExportService renders a completed analysis as an Excel workbook with
// a Sections sheet and a Glossary sheet.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// BuildWorkbook returns the xlsx bytes for one analysis.
func (es *ExportService) BuildWorkbook(analysis *models.Analysis) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Error closing Excel file", "error", err)
		}
	}()

	sectionsSheet := "Sections"
	index, err := f.NewSheet(sectionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sections sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Section", "Original", "Summary", "Output Language"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sectionsSheet, cell, header)
	}

	for rowIdx, section := range analysis.Sections {
		row := rowIdx + 2
		f.SetCellValue(sectionsSheet, fmt.Sprintf("A%d", row), section.Index)
		f.SetCellValue(sectionsSheet, fmt.Sprintf("B%d", row), section.Original)
		f.SetCellValue(sectionsSheet, fmt.Sprintf("C%d", row), section.Summary)
		f.SetCellValue(sectionsSheet, fmt.Sprintf("D%d", row), section.OutputLang)
	}

	f.SetColWidth(sectionsSheet, "B", "C", 60)

	glossarySheet := "Glossary"
	if _, err := f.NewSheet(glossarySheet); err != nil {
		return nil, fmt.Errorf("failed to create glossary sheet: %w", err)
	}

	f.SetCellValue(glossarySheet, "A1", "Term")
	f.SetCellValue(glossarySheet, "B1", "Definition")

	row := 2
	for _, term := range sortedTerms(analysis.Glossary) {
		f.SetCellValue(glossarySheet, fmt.Sprintf("A%d", row), term)
		f.SetCellValue(glossarySheet, fmt.Sprintf("B%d", row), analysis.Glossary[term])
		row++
	}

	f.SetColWidth(glossarySheet, "B", "B", 60)

	// Drop the default sheet excelize creates
	if err := f.DeleteSheet("Sheet1"); err != nil {
		logger.Debug("Failed to delete default sheet", "error", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func sortedTerms(glossary map[string]string) []string {
	terms := make([]string, 0, len(glossary))
	for term := range glossary {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
