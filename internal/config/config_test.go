package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefaults() {
	for _, key := range []string{
		"PORT", "ENV", "STORE_DRIVER", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODELS",
		"SESSION_TIMEOUT", "MAX_API_CALLS", "REQUIRE_CONSENT", "SENSITIVE_PATTERNS",
	} {
		s.T().Setenv(key, "")
	}

	cfg := Load()

	s.Equal("3000", cfg.Server.Port)
	s.True(cfg.IsDevelopment())
	s.Equal(StoreMemory, cfg.Database.Driver)
	s.Equal(30*time.Minute, cfg.Session.Timeout)
	s.Equal(24*time.Hour, cfg.Session.Retention)
	s.Equal(50, cfg.Session.MaxAPICalls)
	s.True(cfg.Session.RequireConsent)
	s.Equal(DefaultSensitivePatterns, cfg.Session.SensitivePatterns)
	s.Nil(cfg.Gemini.Models)
	s.Empty(cfg.Gemini.APIKey)
}

func (s *ConfigSuite) TestOverrides() {
	s.T().Setenv("GOOGLE_API_KEY", "google-key")
	s.T().Setenv("GEMINI_API_KEY", "")
	s.T().Setenv("SESSION_TIMEOUT", "5m")
	s.T().Setenv("MAX_API_CALLS", "3")
	s.T().Setenv("REQUIRE_CONSENT", "false")
	s.T().Setenv("GEMINI_MODELS", "gemini-a ;; gemini-b")
	s.T().Setenv("SENSITIVE_PATTERNS", `\d{2,4};;secret`)

	cfg := Load()

	s.Equal("google-key", cfg.Gemini.APIKey)
	s.Equal(5*time.Minute, cfg.Session.Timeout)
	s.Equal(3, cfg.Session.MaxAPICalls)
	s.False(cfg.Session.RequireConsent)
	s.Equal([]string{"gemini-a", "gemini-b"}, cfg.Gemini.Models)
	s.Equal([]string{`\d{2,4}`, "secret"}, cfg.Session.SensitivePatterns)
}

func (s *ConfigSuite) TestInvalidValuesFallBack() {
	s.T().Setenv("SESSION_TIMEOUT", "soon")
	s.T().Setenv("MAX_API_CALLS", "many")

	cfg := Load()

	s.Equal(30*time.Minute, cfg.Session.Timeout)
	s.Equal(50, cfg.Session.MaxAPICalls)
}

func (s *ConfigSuite) TestDatabaseDSN() {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "jobfit",
	}}

	s.Equal("host=db port=5433 user=u password=p dbname=jobfit sslmode=disable", cfg.GetDatabaseDSN())
}
