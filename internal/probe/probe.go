package probe

import (
	"context"
	"net/http"
	"time"
)

// Reachable sends a single HEAD request to targetURL and reports whether
// the target answered with a 2xx/3xx status within timeout. Transport
// failures and error statuses both read as unreachable; this check never
// returns an error because reachability is just a datapoint.
func Reachable(ctx context.Context, targetURL string, timeout time.Duration) bool {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	return res.StatusCode >= 200 && res.StatusCode < 400
}
