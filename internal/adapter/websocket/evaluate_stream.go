// Package websocket streams audio for evaluation over a single
// connection. The client sends binary audio frames, then a JSON text
// frame {"event":"end", ...} with the evaluation parameters. The
// report is written back as JSON and the accumulated buffer is reset
// for the next utterance.
package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
	"github.com/speakeasy-labs/fluency-service/internal/service/evaluation"
)

const maxStreamBytes = 25 << 20

type EvaluateStreamHandler struct {
	service *evaluation.Service
	log     *zap.Logger
}

func NewEvaluateStreamHandler(service *evaluation.Service, log *zap.Logger) *EvaluateStreamHandler {
	return &EvaluateStreamHandler{
		service: service,
		log:     log,
	}
}

type streamControl struct {
	Event        string `json:"event"`
	Format       string `json:"format"`
	ExpectedText string `json:"expected_text"`
	Scenario     string `json:"scenario"`
	Level        string `json:"level"`
	Language     string `json:"language"`
	Detailed     bool   `json:"detailed"`
}

func (h *EvaluateStreamHandler) HandleStream(c *websocket.Conn) {
	ctx := context.Background()
	var audio []byte

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			break
		}

		switch messageType {
		case websocket.BinaryMessage:
			if len(audio)+len(data) > maxStreamBytes {
				h.writeError(c, "audio stream too large")
				audio = nil
				continue
			}
			audio = append(audio, data...)

		case websocket.TextMessage:
			var ctrl streamControl
			if err := json.Unmarshal(data, &ctrl); err != nil {
				h.writeError(c, "invalid control frame")
				continue
			}
			if ctrl.Event != "end" {
				continue
			}

			report, err := h.service.Evaluate(ctx, domain.EvaluationRequest{
				Audio:        audio,
				Format:       ctrl.Format,
				ExpectedText: ctrl.ExpectedText,
				Scenario:     domain.Scenario(ctrl.Scenario),
				Level:        domain.Level(ctrl.Level),
				Language:     ctrl.Language,
				Detailed:     ctrl.Detailed,
			})
			audio = nil
			if err != nil {
				h.log.Warn("stream evaluation failed", zap.Error(err))
				h.writeError(c, err.Error())
				continue
			}

			payload, err := json.Marshal(report)
			if err != nil {
				h.writeError(c, "could not encode report")
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (h *EvaluateStreamHandler) writeError(c *websocket.Conn, msg string) {
	payload, _ := json.Marshal(map[string]string{"error": msg})
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.log.Debug("websocket write failed", zap.Error(err))
	}
}

// SetupRoutes registers the streaming endpoint and, when a hub is
// given, the event feed observers connect to.
func SetupRoutes(app *fiber.App, handler *EvaluateStreamHandler, hub *EventHub) {
	upgrade := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	app.Use("/ws/evaluate", upgrade)
	app.Get("/ws/evaluate", websocket.New(handler.HandleStream))

	if hub != nil {
		app.Use("/ws/events", upgrade)
		app.Get("/ws/events", websocket.New(hub.Serve))
	}
}
