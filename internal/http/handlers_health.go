package httpx

import (
	"context"
	"io"
	"net/http"
	"slices"
	"time"
)

const (
	healthResponse     = `{"status":"ok"}`
	healthCheckTimeout = 2 * time.Second
)

// HealthCheck reports whether a dependency (e.g. the Redis session store) is usable.
type HealthCheck func(ctx context.Context) error

// healthHandler answers liveness probes. When checks are registered a failing
// one turns the answer into 503 naming the failed dependencies.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	slices.Sort(names)

	return func(w http.ResponseWriter, r *http.Request) {
		var failed []string
		if len(names) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			for _, name := range names {
				if err := checks[name](ctx); err != nil {
					failed = append(failed, name)
				}
			}
		}

		if len(failed) > 0 {
			if r.Method == http.MethodHead {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "failed": failed})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		// Nothing more to do if the client connection is gone.
		_, _ = io.WriteString(w, healthResponse)
	}
}
