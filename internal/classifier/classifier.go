// Package classifier categorizes transactions with a Gemini model.
//
// It serves as the fallback behind the rule engine: descriptions the rules
// cannot place are sent in one batch, and the model answers with a strict
// JSON array matching the batch order.
package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/banksort-dev/banksort/internal/categorize"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds one generate call, including retries.
const DefaultTimeout = 60 * time.Second

// DefaultRetries is how many times a failed call is retried.
const DefaultRetries = 2

// Config tunes the classifier. Zero values fall back to the defaults.
type Config struct {
	Model   string
	Timeout time.Duration
	Retries int
	Log     zerolog.Logger
}

// Client implements categorize.Classifier on top of the Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	retries int
	log     zerolog.Logger
}

// New builds a client. Credentials come from the environment, the same way
// the genai SDK resolves them everywhere else.
func New(ctx context.Context, cfg Config) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	c := &Client{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		retries: cfg.Retries,
		log:     cfg.Log,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.retries <= 0 {
		c.retries = DefaultRetries
	}
	return c, nil
}

// Classify sends the batch to the model and returns one result per input.
// Entries the model answered badly come back nil rather than failing the
// whole batch.
func (c *Client) Classify(ctx context.Context, batch []categorize.Input) ([]*categorize.Result, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildPrompt(batch)
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.log.Debug().Int("attempt", attempt).Msg("retrying classifier call")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
		if err != nil {
			lastErr = err
			continue
		}
		text := resp.Text()
		if text == "" {
			lastErr = fmt.Errorf("empty response from model")
			continue
		}

		results, err := parseResponse(text, len(batch))
		if err != nil {
			lastErr = err
			continue
		}
		return results, nil
	}
	return nil, fmt.Errorf("classifying %d transactions: %w", len(batch), lastErr)
}
