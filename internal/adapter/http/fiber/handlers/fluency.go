package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
	"github.com/speakeasy-labs/fluency-service/internal/service/evaluation"
)

const maxRemoteAudioBytes = 25 << 20

type FluencyHandler struct {
	service *evaluation.Service
	log     *zap.Logger
}

func NewFluencyHandler(service *evaluation.Service, log *zap.Logger) *FluencyHandler {
	return &FluencyHandler{
		service: service,
		log:     log,
	}
}

type EvaluateRequest struct {
	Audio        string `json:"audio"` // Base64
	AudioURL     string `json:"audio_url"`
	Format       string `json:"format"`
	ExpectedText string `json:"expected_text"`
	Scenario     string `json:"scenario"`
	Level        string `json:"level"`
	Language     string `json:"language"`
	Detailed     bool   `json:"detailed"`
}

// Evaluate scores a single utterance sent as base64 audio or a URL.
func (h *FluencyHandler) Evaluate(c *fiber.Ctx) error {
	var req EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	var audioBytes []byte
	switch {
	case req.Audio != "":
		decoded, err := base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid base64 audio"})
		}
		audioBytes = decoded
	case req.AudioURL != "":
		fetched, err := fetchAudio(c, req.AudioURL)
		if err != nil {
			h.log.Warn("audio fetch failed", zap.String("url", req.AudioURL), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not fetch audio"})
		}
		audioBytes = fetched
	}

	report, err := h.service.Evaluate(c.Context(), domain.EvaluationRequest{
		Audio:        audioBytes,
		Format:       req.Format,
		ExpectedText: req.ExpectedText,
		Scenario:     domain.Scenario(req.Scenario),
		Level:        domain.Level(req.Level),
		Language:     req.Language,
		Detailed:     req.Detailed,
	})
	if err != nil {
		return err
	}

	return c.JSON(report)
}

// EvaluateUpload scores an utterance posted as a multipart file. The
// remaining parameters travel as form fields.
func (h *FluencyHandler) EvaluateUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file field"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not open upload"})
	}
	defer file.Close()

	audioBytes, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}

	format := c.FormValue("format")
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	}

	report, err := h.service.Evaluate(c.Context(), domain.EvaluationRequest{
		Audio:        audioBytes,
		Format:       format,
		ExpectedText: c.FormValue("expected_text"),
		Scenario:     domain.Scenario(c.FormValue("scenario")),
		Level:        domain.Level(c.FormValue("level")),
		Language:     c.FormValue("language"),
		Detailed:     c.FormValue("detailed") == "true",
	})
	if err != nil {
		return err
	}

	return c.JSON(report)
}

// GetReport returns a persisted report by id.
func (h *FluencyHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.service.Report(c.Context(), c.Params("id"))
	if err != nil {
		h.log.Error("report lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "report lookup failed"})
	}
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report not found"})
	}
	return c.JSON(report)
}

// GetHistory lists recent reports, optionally filtered by scenario.
func (h *FluencyHandler) GetHistory(c *fiber.Ctx) error {
	scenario := domain.Scenario(c.Query("scenario"))
	if scenario != "" && !scenario.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid scenario"})
	}

	reports, err := h.service.History(c.Context(), scenario, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		h.log.Error("history lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "history lookup failed"})
	}
	if reports == nil {
		reports = []domain.FluencyReport{}
	}

	return c.JSON(fiber.Map{"reports": reports, "count": len(reports)})
}

func fetchAudio(c *fiber.Ctx, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteAudioBytes))
}
