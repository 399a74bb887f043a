package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ImageGenerator abstracts the image-generation service: editing a supplied
// image, synthesizing purely from text, and fetching the transient hosted
// result of a generation call.
type ImageGenerator interface {
	// Edit sends image bytes plus a prompt to the edit endpoint and returns
	// the generated image bytes.
	Edit(ctx context.Context, image []byte, filename, mimeType, prompt string) ([]byte, error)

	// Generate sends a prompt to the text-to-image endpoint and returns the
	// transient hosted URL of the result.
	Generate(ctx context.Context, prompt, size string) (string, error)

	// FetchImage downloads image bytes from a hosted URL.
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// OpenAIConfig holds configuration for the OpenAI images client.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	EditModel  string
	ImageModel string
	Timeout    time.Duration
}

// OpenAIClient implements ImageGenerator against the OpenAI images API.
type OpenAIClient struct {
	client     *resty.Client
	fetch      *resty.Client
	baseURL    string
	editModel  string
	imageModel string
}

// NewOpenAIClient creates a new OpenAI images client.
func NewOpenAIClient(cfg *OpenAIConfig) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetTimeout(timeout)

	// Hosted result URLs live outside the API; no auth header on fetches
	fetch := resty.New()
	fetch.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIClient{
		client:     client,
		fetch:      fetch,
		baseURL:    baseURL,
		editModel:  cfg.EditModel,
		imageModel: cfg.ImageModel,
	}
}

type imageAPIResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (r *imageAPIResponse) check(httpResp *resty.Response, op string) error {
	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if r.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), r.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return fmt.Errorf("%s returned error: %s", op, errorMsg)
	}
	if r.Error != nil {
		return fmt.Errorf("%s error: %s", op, r.Error.Message)
	}
	if len(r.Data) == 0 {
		return fmt.Errorf("no data in %s response (status: %d)", op, httpResp.StatusCode())
	}
	return nil
}

// Edit calls POST /images/edits with a multipart body and decodes the
// base64-encoded result.
func (c *OpenAIClient) Edit(ctx context.Context, image []byte, filename, mimeType, prompt string) ([]byte, error) {
	var resp imageAPIResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("image", filename, bytes.NewReader(image)).
		SetFormData(map[string]string{
			"model":  c.editModel,
			"prompt": prompt,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post(c.baseURL + "/images/edits")

	if err != nil {
		return nil, fmt.Errorf("failed to call image edit API: %w", err)
	}
	if err := resp.check(httpResp, "image edit API"); err != nil {
		return nil, err
	}

	if resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("image edit API returned no image payload")
	}
	generated, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}
	return generated, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

// Generate calls POST /images/generations and returns the hosted URL of the
// result. The URL is transient and must be fetched and re-uploaded by the
// caller.
func (c *OpenAIClient) Generate(ctx context.Context, prompt, size string) (string, error) {
	var resp imageAPIResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(generateRequest{
			Model:  c.imageModel,
			Prompt: prompt,
			N:      1,
			Size:   size,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post(c.baseURL + "/images/generations")

	if err != nil {
		return "", fmt.Errorf("failed to call image generation API: %w", err)
	}
	if err := resp.check(httpResp, "image generation API"); err != nil {
		return "", err
	}

	if resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation API returned no image URL")
	}
	return resp.Data[0].URL, nil
}

// FetchImage downloads the image bytes behind a hosted URL.
func (c *OpenAIClient) FetchImage(ctx context.Context, url string) ([]byte, error) {
	httpResp, err := c.fetch.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}
	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return nil, fmt.Errorf("fetching generated image returned HTTP %d", httpResp.StatusCode())
	}
	return httpResp.Body(), nil
}
