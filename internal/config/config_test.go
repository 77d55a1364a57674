package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Model.Provider != "ollama-local" {
		t.Errorf("Provider = %q, want %q", cfg.Model.Provider, "ollama-local")
	}
	if cfg.Model.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", cfg.Model.Temperature)
	}
	if cfg.Model.TopP != 0.9 {
		t.Errorf("TopP = %v, want 0.9", cfg.Model.TopP)
	}
	if cfg.Model.MaxTokens != 500 {
		t.Errorf("MaxTokens = %d, want 500", cfg.Model.MaxTokens)
	}
	if cfg.Model.MaxToolIterations != 4 {
		t.Errorf("MaxToolIterations = %d, want 4", cfg.Model.MaxToolIterations)
	}
}

func TestNumericSettingsClamped(t *testing.T) {
	t.Setenv("OLLAMA_TEMPERATURE", "3.5")
	t.Setenv("OLLAMA_TOP_P", "-1")
	t.Setenv("OLLAMA_MAX_TOKENS", "99999")
	t.Setenv("ASSISTANT_MAX_TOOL_ITERATIONS", "0")

	cfg := Load()
	if cfg.Model.Temperature != 1 {
		t.Errorf("Temperature = %v, want clamp to 1", cfg.Model.Temperature)
	}
	if cfg.Model.TopP != 0 {
		t.Errorf("TopP = %v, want clamp to 0", cfg.Model.TopP)
	}
	if cfg.Model.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d, want clamp to 2048", cfg.Model.MaxTokens)
	}
	if cfg.Model.MaxToolIterations != 1 {
		t.Errorf("MaxToolIterations = %d, want clamp to 1", cfg.Model.MaxToolIterations)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("OLLAMA_TEMPERATURE", "quente")
	t.Setenv("OLLAMA_MAX_TOKENS", "muitos")

	cfg := Load()
	if cfg.Model.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want default 0.2", cfg.Model.Temperature)
	}
	if cfg.Model.MaxTokens != 500 {
		t.Errorf("MaxTokens = %d, want default 500", cfg.Model.MaxTokens)
	}
}

func TestNonFiniteNumbersFallBack(t *testing.T) {
	cases := []string{"NaN", "Inf", "+Inf", "-Inf"}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("OLLAMA_TEMPERATURE", raw)
			t.Setenv("OLLAMA_TOP_P", raw)

			cfg := Load()
			if cfg.Model.Temperature != 0.2 {
				t.Errorf("Temperature = %v, want default 0.2", cfg.Model.Temperature)
			}
			if cfg.Model.TopP != 0.9 {
				t.Errorf("TopP = %v, want default 0.9", cfg.Model.TopP)
			}
		})
	}
}
