// Package source fetches managed configuration documents from their
// distribution points: git repositories, HTTP(S) URLs, or local paths.
package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/bianoble/confsync/internal/config"
)

// Resolver fetches one managed document from a source. file is the
// document's path within the source; resolvers that point directly at a
// document (url) ignore it.
type Resolver interface {
	Fetch(ctx context.Context, src config.Source, file string, projectRoot string) ([]byte, error)
}

// SourceError represents an error associated with a specific source operation.
type SourceError struct {
	Source    string
	Operation string
	Err       error
	Hint      string
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %s", e.Source, e.Operation, e.Err)
	if e.Hint != "" {
		msg += " — " + e.Hint
	}
	return msg
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Registry maps source type strings to Resolver implementations.
type Registry struct {
	resolvers map[string]Resolver
}

// NewRegistry creates a new empty source resolver registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register adds a resolver for a source type, replacing any existing one.
func (r *Registry) Register(sourceType string, resolver Resolver) {
	r.resolvers[sourceType] = resolver
}

// Fetch dispatches to the resolver registered for the source's type.
func (r *Registry) Fetch(ctx context.Context, src config.Source, file string, projectRoot string) ([]byte, error) {
	resolver, ok := r.resolvers[src.Type]
	if !ok {
		return nil, &SourceError{
			Source:    src.Name,
			Operation: "fetch",
			Err:       fmt.Errorf("no resolver registered for type '%s'", src.Type),
			Hint:      fmt.Sprintf("registered types: %v", r.types()),
		}
	}
	return resolver.Fetch(ctx, src, file, projectRoot)
}

func (r *Registry) types() []string {
	types := make([]string, 0, len(r.resolvers))
	for t := range r.resolvers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
