package health

import (
	"encoding/json"
	"net/http"
)

type ReadinessReporter interface {
	Readiness() (ready bool, partitions []int32)
}

// ReadyFunc adapts a plain check, such as a store ping, to ReadinessReporter.
type ReadyFunc func() bool

func (f ReadyFunc) Readiness() (bool, []int32) { return f(), nil }

// Readiness is ready only when every reporter is. Partitions are merged.
func Readiness(rrs ...ReadinessReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type resp struct {
			Status     string  `json:"status"`
			Partitions []int32 `json:"partitions,omitempty"`
		}
		ready := true
		var parts []int32
		for _, rr := range rrs {
			ok, p := rr.Readiness()
			if !ok {
				ready = false
				break
			}
			parts = append(parts, p...)
		}
		out := resp{Status: "not_ready"}
		if ready {
			out.Status = "ready"
			out.Partitions = parts
		}
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
