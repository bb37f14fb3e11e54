package metrics

import (
	"sort"
	"strings"
	"sync"
)

// Registry holds metric families by name.
type Registry struct {
	metrics sync.Map // map[string]Metric
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds m, replacing any family with the same name.
func (r *Registry) Register(m Metric) {
	r.metrics.Store(m.Name(), m)
}

// MustRegister registers every metric and returns the registry.
func (r *Registry) MustRegister(ms ...Metric) *Registry {
	for _, m := range ms {
		r.Register(m)
	}
	return r
}

// Unregister removes the family called name.
func (r *Registry) Unregister(name string) {
	r.metrics.Delete(name)
}

// Export renders every family sorted by name.
func (r *Registry) Export() string {
	var names []string
	r.metrics.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		if val, ok := r.metrics.Load(name); ok {
			sb.WriteString(val.(Metric).Describe())
		}
	}
	return sb.String()
}
