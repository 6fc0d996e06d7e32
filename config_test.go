package coursesync

import "testing"

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.ContentRoot = "/tmp/course"
	cfg.API = APIConfig{
		BaseURL:  "https://lms.example.edu",
		Token:    "secret",
		CourseID: "4242",
	}
	return cfg
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing content root", func(c *Config) { c.ContentRoot = "" }},
		{"missing base URL", func(c *Config) { c.API.BaseURL = "" }},
		{"malformed base URL", func(c *Config) { c.API.BaseURL = "not a url" }},
		{"missing token", func(c *Config) { c.API.Token = "" }},
		{"missing course ID", func(c *Config) { c.API.CourseID = "" }},
		{"non-numeric course ID", func(c *Config) { c.API.CourseID = "abc" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("logging defaults = %#v", cfg.Logging)
	}
	if cfg.Quiz.Seed == 0 {
		t.Fatal("solution sampling must be reproducible by default")
	}
}
