package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateWorkspace checks a resolved workspace configuration against the
// struct constraints. Resolution always produces valid defaults; this guards
// against invalid explicit values (e.g. an unknown pr_run_mode).
func ValidateWorkspace(cfg *WorkspaceConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("workspace config validation failed: %w", err)
	}
	return nil
}

// ValidateApp checks a resolved package configuration.
func ValidateApp(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed for package %s: %w", cfg.Name, err)
	}
	return nil
}
