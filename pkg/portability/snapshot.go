package portability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/requestlog"
)

// Snapshot is an exported copy of the server state.
type Snapshot struct {
	ExportedAt time.Time             `json:"exportedAt" yaml:"exportedAt"`
	Endpoints  []endpoint.Definition `json:"endpoints" yaml:"endpoints"`
	Logs       []requestlog.Entry    `json:"logs" yaml:"logs"`
}

// Backup is a snapshot as read back for import. Endpoints decode as drafts so
// identity fields are dropped and defaults apply to missing fields. Log
// entries are kept opaque because they are never restored.
type Backup struct {
	Endpoints []endpoint.Draft `json:"endpoints" yaml:"endpoints"`
	Logs      []any            `json:"logs,omitempty" yaml:"logs,omitempty"`
}

// Source provides the state captured by Export.
type Source interface {
	List() []endpoint.Definition
}

// LogSource provides the request history captured by Export.
type LogSource interface {
	List(limit int) []requestlog.Entry
	Capacity() int
}

// Export captures every definition and, when logs is non-nil, the full
// request log, newest first.
func Export(src Source, logs LogSource, now time.Time) Snapshot {
	snap := Snapshot{
		ExportedAt: now.UTC(),
		Endpoints:  src.List(),
		Logs:       []requestlog.Entry{},
	}
	if logs != nil {
		snap.Logs = logs.List(logs.Capacity())
	}
	return snap
}

// ErrEmptyDocument is returned when a document has no content.
var ErrEmptyDocument = errors.New("empty document")

// Encode writes the snapshot in the given format. JSON is indented with two
// spaces, matching dashboard backups.
func Encode(w io.Writer, snap Snapshot, format Format) error {
	switch format {
	case FormatJSON, FormatUnknown:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return &ExportError{Format: FormatJSON, Message: "encoding snapshot", Cause: err}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return &ExportError{Format: FormatYAML, Message: "encoding snapshot", Cause: err}
		}
		return enc.Close()
	default:
		return &ExportError{Format: format, Message: "unsupported format"}
	}
}

// Decode parses a backup document. FormatUnknown detects the format from
// the content.
func Decode(data []byte, format Format) (*Backup, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ImportError{Format: format, Message: "reading backup", Cause: ErrEmptyDocument}
	}
	if format == FormatUnknown {
		format = DetectFormat(data, "")
	}

	var backup Backup
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &backup)
	case FormatYAML:
		err = yaml.Unmarshal(data, &backup)
	default:
		return nil, &ImportError{Format: format, Message: "unsupported format"}
	}
	if err != nil {
		return nil, &ImportError{Format: format, Message: "parsing backup", Cause: err}
	}
	return &backup, nil
}

// ExportError represents an error during export.
type ExportError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	return formatError(e.Format, e.Message, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// ImportError represents an error reading a backup.
type ImportError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	return formatError(e.Format, e.Message, e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

func formatError(f Format, msg string, cause error) string {
	if f != FormatUnknown {
		msg = string(f) + ": " + msg
	}
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return msg
}
