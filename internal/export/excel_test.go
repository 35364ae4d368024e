package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mzackyaulya/sentikom/internal/models"
)

func TestWriteWorkbook(t *testing.T) {
	res := models.AnalysisResult{
		VideoURL: "https://www.tiktok.com/@a/video/1",
		Comments: []models.LabeledComment{
			{Text: "mantap banget", Sentiment: models.SentimentPositive, Score: 0.99},
			{Text: "biasa aja", Sentiment: models.SentimentNeutral, Score: 0.7},
			{Text: "tanpa label"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(res, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("Komentar", ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Hasil Analisis Sentimen Komentar TikTok", cell("A1"))
	assert.Equal(t, "Komentar", cell("A2"))
	assert.Equal(t, "Sentimen", cell("B2"))
	assert.Equal(t, "mantap banget", cell("A3"))
	assert.Equal(t, "positive", cell("B3"))
	assert.Equal(t, "biasa aja", cell("A4"))
	assert.Equal(t, "neutral", cell("B5"), "missing label is written as neutral")
}

func TestWriteEmptyResultStillValid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(models.AnalysisResult{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Komentar")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "title and header rows only")
}
