package truerandomnumber

import "random-workers/internal/common/validation"

// GetInputSchema describes the job variables. min and max stay untyped so that
// non-numeric values reach the bounds check and fail there.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"items": {
				Type:        "array",
				Description: "Records to draw for; one random number per record",
				Items: &validation.Property{
					Type: "object",
					Properties: map[string]validation.Property{
						"min": {Description: "Lower bound for this record"},
						"max": {Description: "Upper bound for this record"},
					},
				},
			},
			"min": {
				Description: "Inclusive lower bound",
				Default:     0,
			},
			"max": {
				Description: "Inclusive upper bound",
				Default:     60,
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"randomResults": {
				Type:        "array",
				Description: "One entry per output port, each a list of results in item order",
				Items: &validation.Property{
					Type: "array",
					Items: &validation.Property{
						Type:     "object",
						Required: []string{"random", "Min", "Max", "source", "requestedAt"},
						Properties: map[string]validation.Property{
							"random":      {Type: "integer", Description: "The drawn value"},
							"Min":         {Type: "number", Description: "Lower bound used"},
							"Max":         {Type: "number", Description: "Upper bound used"},
							"source":      {Type: "string", Enum: []string{ProviderName}},
							"requestedAt": {Type: "string", Description: "Local date of the draw"},
						},
					},
				},
			},
			"random": {
				Type:        "integer",
				Description: "Value of the first result",
			},
			"source": {
				Type:        "string",
				Description: "Randomness provider",
			},
		},
		AdditionalProperties: false,
	}
}
