package endpoint

import (
	"encoding/json"
	"maps"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Draft holds the user-supplied fields for a new definition.
// Nil optional fields take their defaults in Build.
type Draft struct {
	Name         string            `json:"name" yaml:"name"`
	Method       string            `json:"method" yaml:"method"`
	Path         string            `json:"path" yaml:"path"`
	StatusCode   *int              `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	ResponseBody *string           `json:"responseBody,omitempty" yaml:"responseBody,omitempty"`
	ContentType  string            `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	DelayMs      *int              `json:"delayMs,omitempty" yaml:"delayMs,omitempty"`
	IsActive     *bool             `json:"isActive,omitempty" yaml:"isActive,omitempty"`
}

// UnmarshalJSON accepts the legacy "delay" key as an alias for "delayMs",
// which older dashboard backups use.
func (d *Draft) UnmarshalJSON(data []byte) error {
	type draftAlias Draft
	aux := struct {
		*draftAlias
		Delay *int `json:"delay"`
	}{draftAlias: (*draftAlias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if d.DelayMs == nil && aux.Delay != nil {
		d.DelayMs = aux.Delay
	}
	return nil
}

// UnmarshalYAML accepts the same "delay" alias as UnmarshalJSON.
func (d *Draft) UnmarshalYAML(value *yaml.Node) error {
	type draftAlias Draft
	var aux struct {
		draftAlias `yaml:",inline"`
		Delay      *int `yaml:"delay"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*d = Draft(aux.draftAlias)
	if d.DelayMs == nil && aux.Delay != nil {
		d.DelayMs = aux.Delay
	}
	return nil
}

// Validate checks required fields and the ranges of optional ones.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(d.Method) == "" {
		return &ValidationError{Field: "method", Message: "method is required"}
	}
	if err := validateMethod(d.Method); err != nil {
		return err
	}
	if strings.TrimSpace(d.Path) == "" {
		return &ValidationError{Field: "path", Message: "path is required"}
	}
	if d.StatusCode != nil {
		if err := validateStatus(*d.StatusCode); err != nil {
			return err
		}
	}
	if d.ContentType != "" {
		if err := validateContentType(d.ContentType); err != nil {
			return err
		}
	}
	if d.DelayMs != nil {
		if err := validateDelay(*d.DelayMs); err != nil {
			return err
		}
	}
	return nil
}

// Build validates the draft and returns a definition with defaults applied.
// The caller assigns the identity.
func (d *Draft) Build(id string, createdAt time.Time) (Definition, error) {
	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	def := Definition{
		ID:          id,
		Name:        d.Name,
		Method:      NormalizeMethod(d.Method),
		Path:        NormalizePath(d.Path),
		StatusCode:  DefaultStatusCode,
		Headers:     cloneHeaders(d.Headers),
		ContentType: DefaultContentType,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
	if d.StatusCode != nil {
		def.StatusCode = *d.StatusCode
	}
	if d.ResponseBody != nil {
		def.ResponseBody = *d.ResponseBody
	}
	if d.ContentType != "" {
		def.ContentType = d.ContentType
	}
	if d.DelayMs != nil {
		def.DelayMs = *d.DelayMs
	}
	if d.IsActive != nil {
		def.IsActive = *d.IsActive
	}
	return def, nil
}

// DraftOf returns a draft that rebuilds def under a new identity.
// Used when importing exported snapshots.
func DraftOf(def Definition) Draft {
	status, body, delay, active := def.StatusCode, def.ResponseBody, def.DelayMs, def.IsActive
	return Draft{
		Name:         def.Name,
		Method:       def.Method,
		Path:         def.Path,
		StatusCode:   &status,
		Headers:      maps.Clone(def.Headers),
		ResponseBody: &body,
		ContentType:  def.ContentType,
		DelayMs:      &delay,
		IsActive:     &active,
	}
}
