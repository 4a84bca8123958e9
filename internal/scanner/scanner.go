package scanner

import (
	"context"
	"fmt"

	"NewsPortal/internal/domain"
)

// Request carries all parameters required to scan one site.
type Request struct {
	SiteName       string
	DisplayName    string
	BaseURL        string
	Keywords       []string
	Limit          int
	MinTitleLength int
	ContentPrefix  string
	Options        map[string]string
}

// Scanner captures a single strategy implementation (class-keyword HTML, RSS, etc.).
// Scan fails only when the page itself cannot be fetched or parsed; missing
// markup inside a page just yields fewer candidates.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Candidate, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
