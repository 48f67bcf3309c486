package ping

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"keepalive/internal/models"
	"keepalive/internal/state"
)

// Pinger issues keep-alive GET requests against health-check endpoints.
type Pinger struct {
	client *http.Client
}

// NewPinger builds a Pinger around the given HTTP client. A nil client
// gets a plain one; per-request deadlines come from the target timeout,
// not from the client.
func NewPinger(client *http.Client) *Pinger {
	if client == nil {
		client = &http.Client{}
	}
	return &Pinger{client: client}
}

// Do issues exactly one GET against the target and returns the run
// record. It never returns an error: a connection failure, timeout or
// status >= 400 is recorded on the run and swallowed, so a failing
// endpoint can never fail the invocation. The next scheduled tick is
// the only retry.
func (p *Pinger) Do(ctx context.Context, target models.Target) models.Run {
	started := time.Now()
	run := models.Run{
		ID:        uuid.NewString(),
		Target:    target.Name,
		Status:    state.StatusPending,
		StartedAt: started,
	}

	ctx, cancel := context.WithTimeout(ctx, target.Timeout)
	defer cancel()

	err := p.get(ctx, target.URL, &run)
	run.Status = state.FromError(err)
	run.Duration = time.Since(started)

	if err != nil {
		run.LastError = err.Error()
		log.Printf("ping: %s: %v", target.Name, err)
	}
	return run
}

func (p *Pinger) get(ctx context.Context, url string, run *models.Run) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// The body is irrelevant; drain it so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	run.HTTPStatus = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
