package admin

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/waspceptor/waspceptor/pkg/httputil"
	"github.com/waspceptor/waspceptor/pkg/portability"
)

// handleExport handles GET /export. The format query parameter selects
// json (default) or yaml; logs=false leaves the request log out.
func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	format := portability.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		format = portability.ParseFormat(f)
		if !format.IsValid() {
			httputil.WriteError(w, http.StatusBadRequest, "invalid_format", "format must be json or yaml")
			return
		}
	}

	var logs portability.LogSource = a.logs
	if r.URL.Query().Get("logs") == "false" {
		logs = nil
	}
	snap := portability.Export(a.registry, logs, a.now())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "waspceptor-backup."+format.String()))
	w.WriteHeader(http.StatusOK)
	if err := portability.Encode(w, snap, format); err != nil {
		sanitizeError(err, a.log, "export snapshot")
	}
}

// handleImport handles POST /import. The body is a snapshot in JSON or
// YAML; endpoints are recreated with fresh IDs and log entries are ignored.
func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := httputil.ReadBody(w, r, a.maxBody)
	if err != nil {
		a.writeBodyError(w, err, ErrCodeBadBackup)
		return
	}

	backup, err := portability.Decode(data, requestFormat(r))
	if err != nil {
		a.log.Debug("backup rejected", "error", err)
		httputil.WriteError(w, http.StatusBadRequest, ErrCodeBadBackup, err.Error())
		return
	}

	result := portability.Import(a.registry, backup)
	a.log.Info("snapshot imported", "imported", result.Imported, "failed", result.Failed, "skippedLogs", result.SkippedLogs)
	httputil.WriteOK(w, result)
}

// requestFormat picks the import format from the format query parameter,
// then the Content-Type header. Unknown means detect from content.
func requestFormat(r *http.Request) portability.Format {
	if f := portability.ParseFormat(r.URL.Query().Get("format")); f.IsValid() {
		return f
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return portability.FormatUnknown
	}
	switch mediaType {
	case "application/json":
		return portability.FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml":
		return portability.FormatYAML
	}
	return portability.FormatUnknown
}
