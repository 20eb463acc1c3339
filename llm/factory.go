// Package llm - provider factory contract
package llm

import (
	"dario.cat/mergo"
)

// ProviderFactory creates providers for one backend and advertises its
// capabilities. Factories are immutable once registered.
type ProviderFactory interface {
	// ProviderID is the registry key (e.g. "anthropic", "openai").
	ProviderID() string
	// DisplayName is a human-readable provider name.
	DisplayName() string
	// Description is a one-line summary for listings.
	Description() string
	// SupportedCapabilities is the advertised capability set. Models may
	// support a subset; runtime fallback is expected.
	SupportedCapabilities() CapabilitySet
	// DefaultConfig returns the factory defaults (base URL, model, limits).
	DefaultConfig() Config
	// ValidateConfig checks a config before Create. Configuration problems
	// surface here, never at stream-event time.
	ValidateConfig(cfg Config) error
	// Create builds a provider handle from the config.
	Create(cfg Config) (Provider, error)
}

// ProviderInfo is a read-only snapshot of a registered factory.
type ProviderInfo struct {
	ID           string
	DisplayName  string
	Description  string
	Capabilities CapabilitySet
}

// ApplyDefaults merges the factory defaults into a user config: user-set
// fields win, empty fields take the default. Extensions merge key-wise with
// user keys winning.
func ApplyDefaults(cfg, defaults Config) (Config, error) {
	out := cfg.Clone()
	def := defaults.Clone()
	// mergo fills zero-valued destination fields from the source.
	if err := mergo.Merge(&out, def); err != nil {
		return Config{}, &GenericError{Message: "merge config defaults: " + err.Error()}
	}
	if def.Extensions != nil {
		if out.Extensions == nil {
			out.Extensions = make(map[string]any, len(def.Extensions))
		}
		for k, v := range def.Extensions {
			if _, exists := out.Extensions[k]; !exists {
				out.Extensions[k] = v
			}
		}
	}
	return out, nil
}
