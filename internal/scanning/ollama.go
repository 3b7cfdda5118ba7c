package scanning

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zombor/docscan/internal/extraction"
	"github.com/zombor/docscan/internal/imaging"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llava"
	ollamaTimeout      = 120 * time.Second

	ollamaSystemPrompt = "You are an expert at reading scanned documents such as passports, ID cards, receipts, " +
		"invoices, letters and forms. Transcribe every visible character and answer only with JSON."
)

// Ollama scans documents with a local vision model served by Ollama.
// llava and qwen2-vl both read printed documents well.
type Ollama struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewOllama creates an Ollama scanner. Empty arguments select the local
// default server and the llava model.
func NewOllama(baseURL string, modelName string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if modelName == "" {
		modelName = defaultOllamaModel
	}

	return &Ollama{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/chat",
		model:    modelName,
		client:   &http.Client{Timeout: ollamaTimeout},
	}, nil
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  *ollamaOptions  `json:"options,omitempty"`
	Images   []string        `json:"images,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func (o *Ollama) chatRequest(pngData []byte) ollamaChatRequest {
	return ollamaChatRequest{
		Model:  o.model,
		Format: "json",
		// Extraction should be repeatable for the same image
		Options: &ollamaOptions{Temperature: 0},
		Messages: []ollamaMessage{
			{Role: "system", Content: ollamaSystemPrompt},
			{Role: "user", Content: documentScanPrompt},
		},
		Images: []string{base64.StdEncoding.EncodeToString(pngData)},
	}
}

// ScanDocument classifies a document and extracts its text and fields
func (o *Ollama) ScanDocument(imageData []byte, contentType string) (*extraction.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ollamaTimeout)
	defer cancel()

	pngData, _, err := imaging.ToPNG(imageData, contentType)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	body, err := json.Marshal(o.chatRequest(pngData))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result, err := parseExtractionJSON(chat.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing extraction: %w", err)
	}
	return result, nil
}

// Close is a no-op; the HTTP client holds no resources
func (o *Ollama) Close() error {
	return nil
}
