package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// JWT secrets
	if len(c.JWT.AccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessSecret != "" && c.JWT.RefreshSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1-65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1-65535, got %d", c.Redis.Port))
	}

	// Quota limits
	if c.Quota.DailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_DAILY_LIMIT must be positive, got %d", c.Quota.DailyLimit))
	}
	if c.Quota.MinuteLimit < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_MINUTE_LIMIT must be positive, got %d", c.Quota.MinuteLimit))
	}

	// AI provider
	if c.AI.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("AI_MAX_TOKENS must be positive, got %d", c.AI.MaxTokens))
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("AI_TEMPERATURE must be 0-2, got %g", c.AI.Temperature))
	}

	// AI API key: warn only, the mock provider in dev needs none
	if c.AI.APIKey == "" {
		slog.Warn("AI_API_KEY is empty, suggestion requests will fail against authenticated providers")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
