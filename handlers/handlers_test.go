package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yt-summarizer/config"
	"yt-summarizer/errors"
	"yt-summarizer/models"
	"yt-summarizer/summarize"

	"github.com/gofiber/fiber/v2"
)

type fakeService struct {
	job       *summarize.Job
	prepErr   error
	chunks    []string
	streamErr error
}

func (f *fakeService) Prepare(ctx context.Context, req models.SummarizeRequest) (*summarize.Job, error) {
	if f.prepErr != nil {
		return nil, f.prepErr
	}
	return f.job, nil
}

func (f *fakeService) Stream(ctx context.Context, prompt string, emit func(chunk string) error) error {
	if f.streamErr != nil {
		return f.streamErr
	}
	for _, chunk := range f.chunks {
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeService) Transcript(ctx context.Context, videoID string) (*summarize.Job, error) {
	if f.prepErr != nil {
		return nil, f.prepErr
	}
	return f.job, nil
}

func newTestApp(service summarize.Service) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	cfg := &config.Config{SummaryTimeout: 30 * time.Second}
	handler := NewSummaryHandler(service, cfg)
	app.Post("/api/summarize", handler.Summarize)
	app.Get("/api/transcript/:videoID", handler.DownloadTranscript)
	app.Get("/health", HealthCheck)
	return app
}

func TestSummarizeStreamsEvents(t *testing.T) {
	service := &fakeService{
		job: &summarize.Job{
			Info: models.TranscriptInfo{
				VideoID:  "dQw4w9WgXcQ",
				Language: "English",
				Words:    2,
			},
			Prompt: "prompt",
		},
		chunks: []string{"Hello", " world"},
	}
	app := newTestApp(service)

	payload, _ := json.Marshal(models.SummarizeRequest{
		URL:  "https://youtu.be/dQw4w9WgXcQ",
		Mode: "quick_overview",
	})
	req := httptest.NewRequest("POST", "/api/summarize", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected event-stream content type, got %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		"event: meta",
		`"video_id":"dQw4w9WgXcQ"`,
		`"language":"English"`,
		"event: chunk",
		`"text":"Hello"`,
		`"text":" world"`,
		"event: done",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stream missing %q in:\n%s", want, out)
		}
	}
}

func TestSummarizeStreamError(t *testing.T) {
	service := &fakeService{
		job:       &summarize.Job{Prompt: "prompt"},
		streamErr: errors.Internal("op", io.ErrUnexpectedEOF, "model failed"),
	}
	app := newTestApp(service)

	payload, _ := json.Marshal(models.SummarizeRequest{URL: "https://youtu.be/dQw4w9WgXcQ", Mode: "comprehensive"})
	req := httptest.NewRequest("POST", "/api/summarize", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}

	body, _ := io.ReadAll(resp.Body)
	out := string(body)
	if !strings.Contains(out, "event: error") {
		t.Errorf("expected error event in:\n%s", out)
	}
	if !strings.Contains(out, "unexpected EOF") {
		t.Errorf("expected raw cause in error detail:\n%s", out)
	}
}

func TestSummarizePrepareErrorIsJSON(t *testing.T) {
	service := &fakeService{
		prepErr: errors.NotFound("op", nil, "No transcript available for this video"),
	}
	app := newTestApp(service)

	payload, _ := json.Marshal(models.SummarizeRequest{URL: "https://youtu.be/dQw4w9WgXcQ", Mode: "comprehensive"})
	req := httptest.NewRequest("POST", "/api/summarize", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Error != "No transcript available for this video" {
		t.Errorf("unexpected error message %q", body.Error)
	}
}

func TestSummarizeMissingURL(t *testing.T) {
	app := newTestApp(&fakeService{})

	req := httptest.NewRequest("POST", "/api/summarize", strings.NewReader(`{"mode":"comprehensive"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestDownloadTranscript(t *testing.T) {
	service := &fakeService{
		job: &summarize.Job{
			Info: models.TranscriptInfo{VideoID: "dQw4w9WgXcQ", Language: "English"},
			Text: "hello world",
		},
	}
	app := newTestApp(service)

	req := httptest.NewRequest("GET", "/api/transcript/dQw4w9WgXcQ", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "transcript_dQw4w9WgXcQ.txt") {
		t.Errorf("unexpected content disposition %q", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "hello world" {
		t.Errorf("unexpected body %q", string(body))
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(&fakeService{})

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("invalid timestamp: %v", err)
	}
}
