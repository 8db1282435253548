package summary

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
)

type OllamaClient struct {
	client  *api.Client
	model   string
	timeout time.Duration
	mu      sync.Mutex
}

func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	httpClient := &http.Client{}

	c := api.NewClient(&url.URL{
		Scheme: "http",
		Host:   baseURL,
		Path:   "/",
	}, httpClient)

	return &OllamaClient{
		client:  c,
		model:   model,
		timeout: timeout,
	}
}

func (o *OllamaClient) Complete(ctx context.Context, system, user string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	req := &api.GenerateRequest{
		Model:  o.model,
		System: system,
		Prompt: user,
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var responseFlow []string
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		responseFlow = append(responseFlow, resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.Join(responseFlow, ""), nil
}
