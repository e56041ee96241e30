package admin

import (
	"math"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/httputil"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// RecentWindow is the age below which a log entry counts as recent.
const RecentWindow = 24 * time.Hour

// Stats are the dashboard counters.
type Stats struct {
	TotalEndpoints  int `json:"totalEndpoints"`
	ActiveEndpoints int `json:"activeEndpoints"`
	TotalRequests   int `json:"totalRequests"`
	RecentRequests  int `json:"recentRequests"`

	// AvgResponseTime is the mean responseTime in whole milliseconds.
	AvgResponseTime int64 `json:"avgResponseTime"`

	RequestsByEndpoint map[string]int `json:"requestsByEndpoint"`
}

// ComputeStats derives the counters from the current definitions and log.
func ComputeStats(defs []endpoint.Definition, entries []requestlog.Entry, now time.Time) Stats {
	active := lo.CountBy(defs, func(d endpoint.Definition) bool {
		return d.IsActive
	})
	recent := lo.CountBy(entries, func(e requestlog.Entry) bool {
		return now.Sub(e.Timestamp) < RecentWindow
	})
	byEndpoint := lo.CountValuesBy(entries, func(e requestlog.Entry) string {
		return e.EndpointID
	})

	stats := Stats{
		TotalEndpoints:     len(defs),
		ActiveEndpoints:    active,
		TotalRequests:      len(entries),
		RecentRequests:     recent,
		RequestsByEndpoint: byEndpoint,
	}
	if len(entries) > 0 {
		total := lo.SumBy(entries, func(e requestlog.Entry) int64 {
			return e.ResponseTime
		})
		stats.AvgResponseTime = int64(math.Round(float64(total) / float64(len(entries))))
	}
	return stats
}

// handleStats handles GET /stats.
func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, ComputeStats(a.registry.List(), a.logs.List(a.logs.Capacity()), a.now()))
}
