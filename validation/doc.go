// Package validation checks configuration structs using struct tags.
//
// Field names in error messages come from the mapstructure tag, so they
// match the keys users write in YAML files and environment variables.
//
//	type Config struct {
//	    BaseURL string        `mapstructure:"base_url" validate:"required,http_url"`
//	    Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
//	}
//	if err := validation.Validate(cfg); err != nil {
//	    return err
//	}
package validation
