package llm

import (
	"context"
	"testing"
)

type stubProvider struct {
	id    string
	model string
}

func (p *stubProvider) ProviderID() string { return p.id }
func (p *stubProvider) Model() string      { return p.model }
func (p *stubProvider) Chat(ctx context.Context, messages []Message) (*ChatResponse, error) {
	return &ChatResponse{Text: "ok"}, nil
}
func (p *stubProvider) ChatStream(ctx context.Context, messages []Message) (<-chan StreamEvent, error) {
	ch := make(chan StreamEvent, 1)
	ch <- Completion{Response: &ChatResponse{Text: "ok"}}
	close(ch)
	return ch, nil
}

type stubFactory struct {
	id       string
	caps     CapabilitySet
	defaults Config
	validate func(Config) error
}

func (f *stubFactory) ProviderID() string                   { return f.id }
func (f *stubFactory) DisplayName() string                  { return f.id }
func (f *stubFactory) Description() string                  { return "stub" }
func (f *stubFactory) SupportedCapabilities() CapabilitySet { return f.caps }
func (f *stubFactory) DefaultConfig() Config                { return f.defaults }
func (f *stubFactory) ValidateConfig(cfg Config) error {
	if f.validate != nil {
		return f.validate(cfg)
	}
	return nil
}
func (f *stubFactory) Create(cfg Config) (Provider, error) {
	return &stubProvider{id: f.id, model: cfg.Model}, nil
}

func newStubFactory(id string, caps ...Capability) *stubFactory {
	return &stubFactory{id: id, caps: NewCapabilitySet(caps...)}
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(newStubFactory("a", CapChat)); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(newStubFactory("a", CapChat)); err == nil {
		t.Fatal("duplicate register accepted")
	}
	r.RegisterOrReplace(newStubFactory("a", CapChat, CapStreaming))
	if !r.SupportsCapability("a", CapStreaming) {
		t.Error("RegisterOrReplace did not replace the factory")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(newStubFactory("a", CapChat)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !r.Unregister("a") {
		t.Error("Unregister returned false for a registered provider")
	}
	if r.Unregister("a") {
		t.Error("Unregister returned true for a missing provider")
	}
	if r.IsRegistered("a") {
		t.Error("provider still registered after Unregister")
	}
}

func TestRegistryCapabilityQueries(t *testing.T) {
	r := NewRegistry()
	r.RegisterOrReplace(newStubFactory("chatty", CapChat, CapStreaming))
	r.RegisterOrReplace(newStubFactory("seer", CapChat, CapVision))

	if !r.SupportsCapability("seer", CapVision) {
		t.Error("seer should support vision")
	}
	if r.SupportsCapability("chatty", CapVision) {
		t.Error("chatty should not support vision")
	}
	if r.SupportsCapability("ghost", CapChat) {
		t.Error("unregistered provider should support nothing")
	}

	got := r.ProvidersWithCapability(CapChat)
	if len(got) != 2 || got[0] != "chatty" || got[1] != "seer" {
		t.Errorf("ProvidersWithCapability = %v, want [chatty seer]", got)
	}
}

func TestRegistryCreateProviderAppliesDefaults(t *testing.T) {
	r := NewRegistry()
	f := newStubFactory("a", CapChat)
	f.defaults = Config{BaseURL: "https://default.example.com", Model: "default-model"}
	r.RegisterOrReplace(f)

	p, err := r.CreateProvider("a", Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}
	if p.Model() != "default-model" {
		t.Errorf("Model = %q, want default applied", p.Model())
	}

	if _, err := r.CreateProvider("missing", Config{}); err == nil {
		t.Fatal("CreateProvider succeeded for unregistered provider")
	}
}

func TestRegistryValidationFailureIsSynchronous(t *testing.T) {
	r := NewRegistry()
	f := newStubFactory("a", CapChat)
	f.validate = func(cfg Config) error {
		if cfg.APIKey == "" {
			return &AuthError{Message: "key required"}
		}
		return nil
	}
	r.RegisterOrReplace(f)

	_, err := r.CreateProvider("a", Config{})
	if err == nil {
		t.Fatal("CreateProvider accepted invalid config")
	}
	if AsLLMError(err).Code() != ErrCodeAuth {
		t.Errorf("error code = %v, want auth", AsLLMError(err).Code())
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.RegisterOrReplace(newStubFactory("a", CapChat))
	r.Clear()
	if len(r.AllProviderInfo()) != 0 {
		t.Error("registry not empty after Clear")
	}
}

func TestRegistryAllProviderInfoSorted(t *testing.T) {
	r := NewRegistry()
	r.RegisterOrReplace(newStubFactory("zeta", CapChat))
	r.RegisterOrReplace(newStubFactory("alpha", CapChat))

	infos := r.AllProviderInfo()
	if len(infos) != 2 || infos[0].ID != "alpha" || infos[1].ID != "zeta" {
		t.Errorf("AllProviderInfo not sorted: %v", infos)
	}
}
