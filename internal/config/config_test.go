package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Embedding: EmbeddingConfig{
			Providers: map[string]ProviderConfig{
				"nebius": {APIKey: "test-key", BaseURL: "https://api.example.com/v1/"},
			},
			Vectorizers: map[string]VectorizerConfig{
				"default": {Provider: "nebius", Model: "Qwen3-Embedding-8B", Dimensions: 1024},
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestValidate_VectorizerMissingModel(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Vectorizers["default"] = VectorizerConfig{Provider: "nebius"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for vectorizer without model")
	}

	expected := "embedding.vectorizers.default.model is required"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_VectorizerUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Vectorizers["default"] = VectorizerConfig{Provider: "ghost", Model: "m"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider reference")
	}
}

func TestValidate_TopKOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.DefaultTopK = 100
	cfg.Engine.MaxTopK = 10

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_top_k > max_top_k")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Dataset.Path == "" {
		t.Error("expected default dataset path")
	}
	if cfg.Engine.DefaultTopK != 5 {
		t.Errorf("expected DefaultTopK=5, got %d", cfg.Engine.DefaultTopK)
	}
	if cfg.Engine.MaxTopK != 50 {
		t.Errorf("expected MaxTopK=50, got %d", cfg.Engine.MaxTopK)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected Cache.ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SPEAKERDEX_TEST_KEY", "secret")

	got := string(expandEnvVars([]byte("api_key: ${SPEAKERDEX_TEST_KEY}")))
	if got != "api_key: secret" {
		t.Errorf("unexpected expansion: %q", got)
	}

	got = string(expandEnvVars([]byte("port: ${SPEAKERDEX_TEST_UNSET:-8080}")))
	if got != "port: 8080" {
		t.Errorf("unexpected default expansion: %q", got)
	}
}
