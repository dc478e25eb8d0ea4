/*
Package config
File: validation.go
Description:
    Struct-tag validation via go-playground/validator, grounded on
    acdtunes-spacetraders's config validator wrapper.
*/

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks cfg against its `validate` struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			var messages []string
			for _, e := range validationErrs {
				messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
		}
		return err
	}
	return nil
}

// The conversion into sim.Config/contract.Config (engineConfigFromSettings)
// lives in the engine-facing wiring code (cmd/serve.go), not here, to keep
// this package free of a dependency on internal/sim and internal/contract.
