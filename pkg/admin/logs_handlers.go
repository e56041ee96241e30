package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/waspceptor/waspceptor/pkg/httputil"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// handleListLogs handles GET /logs. The limit defaults to 200 and is capped
// at the log capacity; endpointId narrows the result to one endpoint.
func (a *API) handleListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := listLimit(query.Get("limit"), a.logs.Capacity())

	var entries []requestlog.Entry
	if endpointID := query.Get("endpointId"); endpointID != "" {
		entries = lo.Filter(a.logs.List(a.logs.Capacity()), func(e requestlog.Entry, _ int) bool {
			return e.EndpointID == endpointID
		})
		if len(entries) > limit {
			entries = entries[:limit]
		}
	} else {
		entries = a.logs.List(limit)
	}
	httputil.WriteOK(w, entries)
}

// listLimit parses the limit query value. Missing, malformed and negative
// values give DefaultListLimit; the result never exceeds capacity.
func listLimit(raw string, capacity int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		n = requestlog.DefaultListLimit
	}
	return min(n, capacity)
}

// handleGetLog handles GET /logs/{id}.
func (a *API) handleGetLog(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.logs.Get(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteMessage(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}
	httputil.WriteOK(w, entry)
}

// handleClearLogs handles DELETE /logs.
func (a *API) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	cleared := a.logs.Clear()
	a.log.Info("request log cleared", "entries", cleared)
	httputil.WriteNoContent(w)
}
