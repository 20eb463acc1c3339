package llm

import "testing"

func TestParseThinkingLevel(t *testing.T) {
	tests := []struct {
		in   string
		want ThinkingLevel
	}{
		{"", DefaultThinkingLevel},
		{"off", ThinkingOff},
		{"minimal", ThinkingMinimal},
		{"low", ThinkingLow},
		{"medium", ThinkingMedium},
		{"high", ThinkingHigh},
		{"xhigh", ThinkingXHigh},
		{"turbo", DefaultThinkingLevel},
		{"HIGH", DefaultThinkingLevel},
	}
	for _, tt := range tests {
		if got := ParseThinkingLevel(tt.in); got != tt.want {
			t.Errorf("ParseThinkingLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidThinkingLevel(t *testing.T) {
	for _, l := range ValidThinkingLevels {
		if !IsValidThinkingLevel(string(l)) {
			t.Errorf("IsValidThinkingLevel(%q) = false", l)
		}
	}
	for _, s := range []string{"", "none", "max", "Medium"} {
		if IsValidThinkingLevel(s) {
			t.Errorf("IsValidThinkingLevel(%q) = true", s)
		}
	}
}

func TestThinkingLevelIsEnabled(t *testing.T) {
	if ThinkingOff.IsEnabled() || ThinkingLevel("").IsEnabled() {
		t.Error("off/empty level reports enabled")
	}
	if !ThinkingMinimal.IsEnabled() || !ThinkingXHigh.IsEnabled() {
		t.Error("active level reports disabled")
	}
}

func TestReasoningEffortMapping(t *testing.T) {
	tests := []struct {
		level ThinkingLevel
		want  string
	}{
		{ThinkingOff, ""},
		{ThinkingMinimal, "low"},
		{ThinkingLow, "low"},
		{ThinkingMedium, "medium"},
		{ThinkingHigh, "high"},
		{ThinkingXHigh, "high"},
		{ThinkingLevel("bogus"), "medium"},
	}
	for _, tt := range tests {
		if got := tt.level.ReasoningEffort(); got != tt.want {
			t.Errorf("%v.ReasoningEffort() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestAnthropicBudgetTokens(t *testing.T) {
	tests := []struct {
		level ThinkingLevel
		want  int
	}{
		{ThinkingOff, 0},
		{ThinkingMinimal, 1024},
		{ThinkingLow, 4096},
		{ThinkingMedium, 10000},
		{ThinkingHigh, 25000},
		{ThinkingXHigh, 50000},
		{ThinkingLevel("bogus"), 10000},
	}
	for _, tt := range tests {
		if got := tt.level.AnthropicBudgetTokens(); got != tt.want {
			t.Errorf("%v.AnthropicBudgetTokens() = %d, want %d", tt.level, got, tt.want)
		}
	}
	if ThinkingMinimal.AnthropicBudgetTokens() < MinThinkingBudgetTokens {
		t.Error("minimal budget below the provider floor")
	}
}

func TestEffortFromExtension(t *testing.T) {
	withEffort := func(v any) Config {
		return Config{Extensions: map[string]any{ExtReasoningEffort: v}}
	}
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"absent", Config{}, ""},
		{"vendor low", withEffort("low"), "low"},
		{"vendor medium", withEffort("medium"), "medium"},
		{"vendor high", withEffort("high"), "high"},
		{"level minimal normalizes", withEffort("minimal"), "low"},
		{"level xhigh normalizes", withEffort("xhigh"), "high"},
		{"level off", withEffort("off"), ""},
		{"unknown passes through", withEffort("turbo"), "turbo"},
		{"non-string dropped", withEffort(42), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffortFromExtension(tt.cfg); got != tt.want {
				t.Errorf("EffortFromExtension = %q, want %q", got, tt.want)
			}
		})
	}
}
