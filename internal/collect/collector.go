package collect

import (
	"context"
	"fmt"

	"technews/internal/domain"
)

// Collector gathers items from a single news source and returns how many new
// items it stored.
type Collector interface {
	Type() domain.SourceType
	Collect(ctx context.Context, source domain.NewsSource) (int, error)
}

// Registry keeps a mapping from source types to their collectors.
type Registry struct {
	collectors map[domain.SourceType]Collector
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{collectors: map[domain.SourceType]Collector{}}
}

// Register adds or replaces a collector implementation.
func (r *Registry) Register(collector Collector) {
	if r.collectors == nil {
		r.collectors = map[domain.SourceType]Collector{}
	}
	r.collectors[collector.Type()] = collector
}

// Resolve returns a collector by source type or an error if it is absent.
func (r *Registry) Resolve(sourceType domain.SourceType) (Collector, error) {
	if collector, ok := r.collectors[sourceType]; ok {
		return collector, nil
	}
	return nil, fmt.Errorf("no collector registered for source type %q", sourceType)
}
