// README: Route-name suggestion service over a pluggable index.
package routes

import (
	"context"
	"sort"
	"strings"
)

const maxSuggestions = 8

// Index is the backing set of known route names.
type Index interface {
	Add(ctx context.Context, name string) error
	All(ctx context.Context) ([]string, error)
}

type Service struct {
	index Index
}

func NewService(index Index) *Service {
	return &Service{index: index}
}

func (s *Service) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.index.Add(ctx, name)
}

// Search returns up to 8 case-insensitive substring matches. Queries shorter
// than 2 characters return nothing.
func (s *Service) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, nil
	}
	all, err := s.index.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(all)
	q := strings.ToLower(query)
	var out []string
	for _, r := range all {
		if strings.Contains(strings.ToLower(r), q) {
			out = append(out, r)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out, nil
}

// Seed loads the initial route list, skipping duplicates via the index.
func (s *Service) Seed(ctx context.Context, names []string) error {
	for _, n := range names {
		if err := s.Add(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRoutes is the pre-populated Gauteng route list shown before any
// vehicle has been registered.
var DefaultRoutes = []string{
	"Johannesburg CBD", "Sandton", "Soweto", "Alexandra", "Randburg",
	"Midrand", "Pretoria", "Centurion", "Roodepoort", "Kempton Park",
	"Germiston", "Boksburg", "Benoni", "Springs", "Vereeniging",
	"Vanderbijlpark", "Krugersdorp", "Fourways", "Rosebank", "Braamfontein",
	"Hillbrow", "Yeoville", "Berea", "Newtown", "Melville", "Auckland Park",
}
