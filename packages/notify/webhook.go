package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single webhook call
const DefaultTimeout = 10 * time.Second

// postJSON sends payload to url and accepts any of the given status codes
func postJSON(ctx context.Context, client *http.Client, url string, payload any, accept ...int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	for _, code := range accept {
		if resp.StatusCode == code {
			return nil
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
}

func headline(summary *RunSummary) string {
	if summary.Failed() {
		if summary.FailedTests == 0 {
			return fmt.Sprintf("Run %s", summary.Status)
		}
		return fmt.Sprintf("%d test(s) failed", summary.FailedTests)
	}
	return "All tests passed!"
}
