// Package revalidate asks the static frontend to rebuild after content changes.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aTrapDeer/portfolio-backend/internal/logger"
)

const requestTimeout = 10 * time.Second

type Hook struct {
	url    string
	secret string
	client *http.Client
	log    logger.Logger
	wg     sync.WaitGroup
}

// New returns a hook posting to url. An empty url makes every call a no-op.
func New(url, secret string, log logger.Logger) *Hook {
	return &Hook{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: requestTimeout},
		log:    log,
	}
}

func (h *Hook) Enabled() bool { return h.url != "" }

// Changed fires the webhook in the background. The caller never sees its outcome.
func (h *Hook) Changed(_ context.Context, entity string) {
	if !h.Enabled() {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := h.Send(ctx); err != nil {
			h.log.Warn("revalidation failed", logger.String("entity", entity), logger.Error(err))
			return
		}
		h.log.Debug("revalidation triggered", logger.String("entity", entity))
	}()
}

// Send posts {"secret": ...} and expects 200.
func (h *Hook) Send(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"secret": h.secret})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build revalidation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post revalidation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revalidation returned status %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until in-flight webhook calls finish.
func (h *Hook) Wait() { h.wg.Wait() }
