// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	Parameters           []Parameter            `json:"parameters,omitempty"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

// Parameter is a user-facing setting of an activity. MinValue is advisory and
// only shown by modelling tools.
type Parameter struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Type        string      `json:"type"`
	Default     interface{} `json:"default,omitempty"`
	MinValue    *float64    `json:"minValue,omitempty"`
	PerItem     bool        `json:"perItem"`
	Description string      `json:"description,omitempty"`
}
