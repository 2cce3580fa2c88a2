package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"yt-summarizer/config"
	"yt-summarizer/errors"
	"yt-summarizer/models"
	"yt-summarizer/summarize"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type SummaryHandler struct {
	service summarize.Service
	config  *config.Config
}

func NewSummaryHandler(service summarize.Service, cfg *config.Config) *SummaryHandler {
	return &SummaryHandler{service: service, config: cfg}
}

// Summarize resolves the transcript, then streams the model's answer as
// server-sent events: one "meta" event with transcript statistics, "chunk"
// events with incremental output, and a closing "done" event. Failures after
// headers are sent become an "error" event.
func (h *SummaryHandler) Summarize(c *fiber.Ctx) error {
	var req models.SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body",
			Err:     err,
		}
	}
	if req.URL == "" {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "URL is required",
		}
	}

	job, err := h.service.Prepare(c.Context(), req)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	service := h.service
	timeout := h.config.SummaryTimeout

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// The request context is gone once streaming starts; the model call
		// runs under its own deadline and cannot be user-cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := writeEvent(w, "meta", job.Info); err != nil {
			return
		}

		err := service.Stream(ctx, job.Prompt, func(chunk string) error {
			return writeEvent(w, "chunk", chunkEvent{Text: chunk})
		})
		if err != nil {
			_ = writeEvent(w, "error", errorEvent{
				Error:  "An unexpected error occurred",
				Detail: err.Error(),
			})
			return
		}

		_ = writeEvent(w, "done", struct{}{})
	}))

	return nil
}

type chunkEvent struct {
	Text string `json:"text"`
}

type errorEvent struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeEvent(w *bufio.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}

// DownloadTranscript serves the resolved transcript as a plain-text
// attachment named by video identifier.
func (h *SummaryHandler) DownloadTranscript(c *fiber.Ctx) error {
	videoID := c.Params("videoID")
	if videoID == "" {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "Video ID is required",
		}
	}

	job, err := h.service.Transcript(c.Context(), videoID)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="transcript_%s.txt"`, videoID))
	return c.SendString(job.Text)
}

func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
