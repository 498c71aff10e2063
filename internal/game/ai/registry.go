package ai

import (
	"fmt"
	"maps"
	"slices"
)

// Registry maps the ai_domain named by a creature template to its Planner.
// All planners share one ScriptCaller and scope.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register creates and stores a Planner for domain.
//
// Precondition: domain and caller must not be nil.
// Postcondition: a second domain with the same ID is rejected.
func (r *Registry) Register(domain *Domain, caller ScriptCaller, scope string) error {
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller, scope)
	return nil
}

// RegisterAll registers every domain, stopping at the first collision.
func (r *Registry) RegisterAll(domains []*Domain, caller ScriptCaller, scope string) error {
	for _, d := range domains {
		if err := r.Register(d, caller, scope); err != nil {
			return err
		}
	}
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// Domains returns the registered domain ids in sorted order.
func (r *Registry) Domains() []string {
	return slices.Sorted(maps.Keys(r.planners))
}
