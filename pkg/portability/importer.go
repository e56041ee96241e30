package portability

import (
	"errors"

	"github.com/samber/lo"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
)

// Creator registers new endpoint definitions.
type Creator interface {
	Create(draft endpoint.Draft) (endpoint.Definition, error)
}

// ImportFailure describes one endpoint that could not be recreated.
type ImportFailure struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportResult summarizes an import.
type ImportResult struct {
	Imported    int                   `json:"imported"`
	Failed      int                   `json:"failed"`
	SkippedLogs int                   `json:"skippedLogs"`
	Failures    []ImportFailure       `json:"failures,omitempty"`
	Endpoints   []endpoint.Definition `json:"endpoints"`
}

// Import recreates every endpoint in the backup, in order. An endpoint that
// fails validation is skipped and reported; the rest are still created.
func Import(c Creator, backup *Backup) ImportResult {
	result := ImportResult{Endpoints: []endpoint.Definition{}}
	if backup == nil {
		return result
	}
	result.SkippedLogs = len(backup.Logs)

	for i, draft := range backup.Endpoints {
		def, err := c.Create(draft)
		if err != nil {
			failure := ImportFailure{Index: i, Name: draft.Name, Message: err.Error()}
			var vErr *endpoint.ValidationError
			if errors.As(err, &vErr) {
				failure.Field = vErr.Field
				failure.Message = vErr.Message
			}
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Endpoints = append(result.Endpoints, def)
	}

	result.Imported = len(result.Endpoints)
	result.Failed = len(result.Failures)
	return result
}

// Backup converts an exported snapshot into the form Import consumes.
func (s Snapshot) Backup() *Backup {
	logs := make([]any, len(s.Logs))
	for i := range s.Logs {
		logs[i] = s.Logs[i]
	}
	return &Backup{
		Endpoints: lo.Map(s.Endpoints, func(def endpoint.Definition, _ int) endpoint.Draft {
			return endpoint.DraftOf(def)
		}),
		Logs: logs,
	}
}
