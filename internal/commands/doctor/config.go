package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/basket/internal/core/config"
)

// ConfigCheck reports validation errors and warnings for the loaded config.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{config: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "config",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	err := c.config.ValidateDeep(c.configPath)
	warnings := c.config.Warnings()

	if err == nil && len(warnings) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "config",
			Status: StatusPass,
			Detail: c.configPath,
		})
		return result
	}

	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			label := fe.Field
			if label == "" {
				label = "validation"
			}
			result.Items = append(result.Items, CheckItem{Label: label, Status: StatusFail, Detail: fe.Err.Error()})
		}
	default:
		result.Items = append(result.Items, CheckItem{Label: "validation", Status: StatusFail, Detail: err.Error()})
	}

	for _, w := range warnings {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		result.Items = append(result.Items, CheckItem{Label: label, Status: StatusWarn, Detail: w.Message})
	}

	return result
}
