package endpoint

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Patch is a partial update. Only non-nil fields are applied.
type Patch struct {
	Name         *string           `json:"name,omitempty" yaml:"name,omitempty"`
	Method       *string           `json:"method,omitempty" yaml:"method,omitempty"`
	Path         *string           `json:"path,omitempty" yaml:"path,omitempty"`
	StatusCode   *int              `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	ResponseBody *string           `json:"responseBody,omitempty" yaml:"responseBody,omitempty"`
	ContentType  *string           `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	DelayMs      *int              `json:"delayMs,omitempty" yaml:"delayMs,omitempty"`
	IsActive     *bool             `json:"isActive,omitempty" yaml:"isActive,omitempty"`
}

// UnmarshalJSON accepts the legacy "delay" key as an alias for "delayMs".
func (p *Patch) UnmarshalJSON(data []byte) error {
	type patchAlias Patch
	aux := struct {
		*patchAlias
		Delay *int `json:"delay"`
	}{patchAlias: (*patchAlias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.DelayMs == nil && aux.Delay != nil {
		p.DelayMs = aux.Delay
	}
	return nil
}

func (p *Patch) UnmarshalYAML(value *yaml.Node) error {
	type patchAlias Patch
	var aux struct {
		patchAlias `yaml:",inline"`
		Delay      *int `yaml:"delay"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*p = Patch(aux.patchAlias)
	if p.DelayMs == nil && aux.Delay != nil {
		p.DelayMs = aux.Delay
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Name == nil && p.Method == nil && p.Path == nil && p.StatusCode == nil &&
		p.Headers == nil && p.ResponseBody == nil && p.ContentType == nil &&
		p.DelayMs == nil && p.IsActive == nil
}

// Validate checks the fields that are present.
func (p *Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Message: "name cannot be empty"}
	}
	if p.Method != nil {
		if err := validateMethod(*p.Method); err != nil {
			return err
		}
	}
	if p.Path != nil && strings.TrimSpace(*p.Path) == "" {
		return &ValidationError{Field: "path", Message: "path cannot be empty"}
	}
	if p.StatusCode != nil {
		if err := validateStatus(*p.StatusCode); err != nil {
			return err
		}
	}
	if p.ContentType != nil {
		if err := validateContentType(*p.ContentType); err != nil {
			return err
		}
	}
	if p.DelayMs != nil {
		if err := validateDelay(*p.DelayMs); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns def with the patch merged over it. ID and CreatedAt are
// never touched. The patch must already be valid.
func (p *Patch) Apply(def Definition) Definition {
	out := def.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Method != nil {
		out.Method = NormalizeMethod(*p.Method)
	}
	if p.Path != nil {
		out.Path = NormalizePath(*p.Path)
	}
	if p.StatusCode != nil {
		out.StatusCode = *p.StatusCode
	}
	if p.Headers != nil {
		out.Headers = cloneHeaders(p.Headers)
	}
	if p.ResponseBody != nil {
		out.ResponseBody = *p.ResponseBody
	}
	if p.ContentType != nil {
		out.ContentType = *p.ContentType
	}
	if p.DelayMs != nil {
		out.DelayMs = *p.DelayMs
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	return out
}
