package web

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mzackyaulya/sentikom/internal/cache"
	"github.com/mzackyaulya/sentikom/internal/canonical"
	"github.com/mzackyaulya/sentikom/internal/clients"
	"github.com/mzackyaulya/sentikom/internal/export"
	"github.com/mzackyaulya/sentikom/internal/fetch"
	"github.com/mzackyaulya/sentikom/internal/models"
	"github.com/mzackyaulya/sentikom/internal/sentiment"
)

const (
	msgInvalidURL    = "URL video TikTok tidak valid."
	msgFetchFailed   = "Gagal mengambil komentar. Pastikan link video publik & cookie masih valid."
	msgInternal      = "Terjadi kesalahan saat analisis."
	msgStartFailed   = "Gagal memulai scraping di Apify."
	msgRunFailed     = "Scraping di Apify tidak berhasil. Coba ulangi atau ganti actor."
	msgNoDataset     = "Dataset hasil scraping tidak tersedia."
	msgNothingToSave = "Belum ada hasil analisis untuk diexport."
)

type analyzeRequest struct {
	TikTokURL string `json:"tiktok_url" form:"tiktok_url"`
}

// validateURL canonicalizes raw input and checks the video pattern with
// the query string stripped. ok=false means the caller already got a 422.
func (s *Server) validateURL(c *fiber.Ctx) (string, bool, error) {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return "", false, c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"error": msgInvalidURL})
	}

	raw := strings.TrimSpace(req.TikTokURL)
	if raw == "" {
		return "", false, c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"error": msgInvalidURL})
	}

	url := s.resolver.Canonicalize(c.Context(), raw)
	if !canonical.Valid(canonical.StripQuery(url)) {
		return "", false, c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"error": msgInvalidURL})
	}
	return url, true, nil
}

// handleAnalyze runs the whole pipeline synchronously.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	url, ok, err := s.validateURL(c)
	if !ok {
		return err
	}

	comments, err := s.orch.Fetch(c.Context(), url)
	if err != nil {
		if errors.Is(err, fetch.ErrNoComments) {
			return c.Status(fiber.StatusUnprocessableEntity).
				JSON(fiber.Map{"error": msgFetchFailed})
		}
		return s.internalError(c, msgInternal, err)
	}

	labeled := s.pipeline.Classify(c.Context(), comments)
	return s.finishAnalysis(c, url, labeled)
}

// handleStart begins a primary-source run without waiting for it.
func (s *Server) handleStart(c *fiber.Ctx) error {
	url, ok, err := s.validateURL(c)
	if !ok {
		return err
	}

	runID, err := s.runs.StartRun(c.Context(), canonical.StripQuery(url))
	if err != nil {
		return s.internalError(c, msgStartFailed, err)
	}

	slog.Debug("[Web] Apify run started",
		slog.String("url", url),
		slog.String("run_id", runID))
	return c.JSON(fiber.Map{"runId": runID})
}

// handleCheck polls a run; on terminal success it fetches the dataset and
// finishes the pipeline exactly like analyze.
func (s *Server) handleCheck(c *fiber.Ctx) error {
	runID := c.Params("runId")

	status, err := s.runs.GetRunStatus(c.Context(), runID)
	if err != nil {
		return s.internalError(c, msgInternal, err)
	}

	if status.Status != "SUCCEEDED" {
		if status.Terminal() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"status": status.Status,
				"error":  msgRunFailed,
			})
		}
		return c.JSON(status)
	}

	if status.DatasetID == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"status": status.Status,
			"error":  msgNoDataset,
		})
	}

	items, err := s.runs.FetchDataset(c.Context(), status.DatasetID)
	if err != nil {
		return s.internalError(c, msgInternal, err)
	}

	comments := make([]models.RawComment, 0, len(items))
	for _, it := range items {
		if text := clients.ExtractCommentText(it); text != "" {
			comments = append(comments, models.RawComment{Text: text})
		}
	}

	labeled := s.pipeline.Classify(c.Context(), comments)
	return s.finishAnalysis(c, "", labeled)
}

// finishAnalysis caches the result and renders the chart payload shared by
// analyze and check.
func (s *Server) finishAnalysis(c *fiber.Ctx, url string, labeled []models.LabeledComment) error {
	res := sentiment.BuildResult(url, labeled)

	if err := s.store.Put(c.Context(), cache.LastAnalysisKey, res, s.cfg.Cache.TTL); err != nil {
		slog.Warn("[Web] Failed to cache analysis result",
			slog.String("error", err.Error()))
	}

	resp := fiber.Map{
		"chart":    res.Counts,
		"positive": groupTexts(labeled, models.SentimentPositive),
		"neutral":  groupTexts(labeled, models.SentimentNeutral),
		"negative": groupTexts(labeled, models.SentimentNegative),
	}

	if s.summarizer != nil {
		if text, err := s.summarizer.Summarize(c.Context(), res); err == nil && text != "" {
			resp["summary"] = text
		}
	}

	return c.JSON(resp)
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	res, err := s.store.Get(c.Context(), cache.LastAnalysisKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": msgNothingToSave})
		}
		return s.internalError(c, msgInternal, err)
	}

	var buf bytes.Buffer
	if err := export.Write(res, &buf); err != nil {
		return s.internalError(c, msgInternal, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Send(buf.Bytes())
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// internalError logs the real failure and answers with a generic message;
// diagnostic detail is attached only outside production.
func (s *Server) internalError(c *fiber.Ctx, msg string, err error) error {
	slog.Error("[Web] Request failed",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()))

	payload := fiber.Map{"error": msg}
	if !s.cfg.IsProduction() {
		payload["message"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(payload)
}

func groupTexts(comments []models.LabeledComment, sentiment string) []string {
	out := make([]string, 0)
	for _, c := range comments {
		if c.Sentiment == sentiment {
			out = append(out, c.Text)
		}
	}
	return out
}
