package truerandomnumber

// JobParameterResolver looks a parameter up on the item first, then among the
// job's top-level variables, then falls back to the default. Null counts as unset.
type JobParameterResolver struct {
	items     []InputItem
	variables map[string]interface{}
}

func NewJobParameterResolver(items []InputItem, variables map[string]interface{}) *JobParameterResolver {
	return &JobParameterResolver{items: items, variables: variables}
}

func (r *JobParameterResolver) Resolve(name string, index int, fallback interface{}) interface{} {
	if index >= 0 && index < len(r.items) {
		if v, ok := r.items[index][name]; ok && v != nil {
			return v
		}
	}
	if v, ok := r.variables[name]; ok && v != nil {
		return v
	}
	return fallback
}
