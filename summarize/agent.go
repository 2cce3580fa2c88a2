package summarize

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Agent streams answers from a hosted Gemini model augmented with the
// google_search tool. The model's internal tool-use loop is opaque here.
type Agent struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAgent creates a Gemini streaming client. No request timeout is set:
// streams stay open for as long as the model produces output.
func NewAgent(apiKey, model string) *Agent {
	return &Agent{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta/models",
		httpClient: &http.Client{},
	}
}

var (
	defaultAgent     *Agent
	defaultAgentOnce sync.Once
)

// DefaultAgent returns the process-wide agent, built once on first use and
// reused read-only thereafter.
func DefaultAgent(apiKey, model string) *Agent {
	defaultAgentOnce.Do(func() {
		defaultAgent = NewAgent(apiKey, model)
	})
	return defaultAgent
}

// geminiRequest is the request structure for the Gemini API.
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	Tools            []geminiTool            `json:"tools,omitempty"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiResponse is one streamed response frame.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// Stream sends the prompt and delivers response text fragments to emit in
// arrival order. Each fragment is delivered exactly once; the stream is not
// restartable. An emit error aborts the stream and is returned as-is.
func (a *Agent) Stream(ctx context.Context, prompt string, emit func(chunk string) error) error {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		Tools: []geminiTool{
			{GoogleSearch: &struct{}{}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.3,
			TopP:            0.8,
			MaxOutputTokens: 8000,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:streamGenerateContent?alt=sse&key=%s", a.baseURL, a.model, a.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return a.consumeStream(resp.Body, emit)
}

// consumeStream reads the server-sent event stream and forwards the text of
// each frame.
func (a *Agent) consumeStream(body io.Reader, emit func(chunk string) error) error {
	scanner := bufio.NewScanner(body)
	// Frames carry whole model chunks and can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	sawContent := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var frame geminiResponse
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			return fmt.Errorf("decoding stream frame: %w", err)
		}
		if frame.Error != nil {
			return fmt.Errorf("API error %d: %s", frame.Error.Code, frame.Error.Message)
		}

		for _, candidate := range frame.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.Text == "" {
					continue
				}
				sawContent = true
				if err := emit(part.Text); err != nil {
					return err
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	if !sawContent {
		return fmt.Errorf("no content in response")
	}
	return nil
}
