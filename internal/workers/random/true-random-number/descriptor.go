package truerandomnumber

import (
	"random-workers/internal/common/errors"
	"random-workers/pkg/registry"
)

// Descriptor is the activity registry entry for this worker.
func Descriptor(cfg *Config) registry.Activity {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	minOfMin, minOfMax := 0.0, 1.0

	return registry.Activity{
		ID:                   TaskType,
		DisplayName:          "True Random Number",
		Description:          "Fetches a true random integer between Min and Max (inclusive) from random.org, one per item",
		Category:             "random",
		Version:              "1.0.0",
		TaskType:             TaskType,
		ImplementationStatus: "completed",
		Parameters: []registry.Parameter{
			{
				Name:        "min",
				DisplayName: "Min",
				Type:        "number",
				Default:     cfg.DefaultMin,
				MinValue:    &minOfMin,
				PerItem:     true,
				Description: "Inclusive lower bound",
			},
			{
				Name:        "max",
				DisplayName: "Max",
				Type:        "number",
				Default:     cfg.DefaultMax,
				MinValue:    &minOfMax,
				PerItem:     true,
				Description: "Inclusive upper bound",
			},
		},
		InputSchema:  GetInputSchema().ToMap(),
		OutputSchema: GetOutputSchema().ToMap(),
		ErrorCodes: []string{
			errors.BPMNErrorMapping[errors.ErrCodeInputParsingFailed],
			errors.BPMNErrorMapping[errors.ErrCodeInputValidationFailed],
			errors.BPMNErrorMapping[errors.ErrCodeRangeValidationFailed],
			errors.BPMNErrorMapping[errors.ErrCodeUpstreamFormat],
			errors.BPMNErrorMapping[errors.ErrCodeTransport],
			errors.BPMNErrorMapping[errors.ErrCodeTransportTimeout],
		},
		Timeout:   cfg.Timeout.String(),
		Retries:   cfg.MaxRetries,
		Workflows: []string{},
		Tags:      []string{"random", "random.org", "http"},
	}
}
