// Package export renders a cached analysis as an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mzackyaulya/sentikom/internal/models"
)

const (
	sheetName = "Komentar"
	// Filename offered on download.
	Filename = "tiktok_comments_analysis.xlsx"
)

// Write streams a two-column workbook: a title row, a header row, then one
// row per labeled comment.
func Write(res models.AnalysisResult, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return fmt.Errorf("failed to build workbook title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", "Hasil Analisis Sentimen Komentar TikTok")
	f.SetCellValue(sheetName, "A2", "Komentar")
	f.SetCellValue(sheetName, "B2", "Sentimen")

	for i, c := range res.Comments {
		row := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), c.Text)
		sentiment := c.Sentiment
		if sentiment == "" {
			sentiment = models.SentimentNeutral
		}
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sentiment)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
