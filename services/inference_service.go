package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	config "github.com/dlGuiri/Dental-Lens/configs"
)

// InferenceClient talks to the external tooth-disease model API. The
// service exposes a fast classification endpoint, a slower LIME
// explanation endpoint and a streamed chatbot endpoint.
type InferenceClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewInferenceClient() *InferenceClient {
	baseURL := config.Config("INFERENCE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &InferenceClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type Prediction struct {
	Status     string                 `json:"status"`
	Prediction map[string]interface{} `json:"prediction"`
}

type LimeExplanation struct {
	Status           string                 `json:"status"`
	ExplanationImage string                 `json:"explanation_image"`
	LimeStatistics   map[string]interface{} `json:"lime_statistics"`
	NumSamples       int                    `json:"num_samples"`
}

type chatRequest struct {
	Prompt string  `json:"prompt"`
	Image  *string `json:"image,omitempty"`
}

func (c *InferenceClient) postImage(ctx context.Context, path, filename string, image io.Reader, query string) (*http.Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := c.BaseURL + path
	if query != "" {
		url += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("inference service returned %d: %s", resp.StatusCode, payload)
	}
	return resp, nil
}

// PredictFast classifies a scan image without generating an
// explanation.
func (c *InferenceClient) PredictFast(ctx context.Context, filename string, image io.Reader) (*Prediction, error) {
	resp, err := c.postImage(ctx, "/predict-fast", filename, image, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

// GenerateLime requests a LIME explanation for a scan image.
// numSamples must be within the service's accepted 100-1000 range.
func (c *InferenceClient) GenerateLime(ctx context.Context, filename string, image io.Reader, numSamples int) (*LimeExplanation, error) {
	if numSamples < 100 || numSamples > 1000 {
		return nil, fmt.Errorf("num_samples must be between 100 and 1000, got %d", numSamples)
	}

	resp, err := c.postImage(ctx, "/generate-lime", filename, image, "num_samples="+strconv.Itoa(numSamples))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var explanation LimeExplanation
	if err := json.NewDecoder(resp.Body).Decode(&explanation); err != nil {
		return nil, err
	}
	return &explanation, nil
}

// StreamChat forwards the assistant prompt and copies the token stream
// to w as it arrives, flushing per chunk so the client sees text
// before the response completes.
func (c *InferenceClient) StreamChat(ctx context.Context, prompt string, image *string, w *bufio.Writer) error {
	payload, err := json.Marshal(chatRequest{Prompt: prompt, Image: image})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("inference service returned %d: %s", resp.StatusCode, body)
	}

	chunk := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			if _, werr := w.Write(chunk[:n]); werr != nil {
				return werr
			}
			if ferr := w.Flush(); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
