package filtering

import (
	"fmt"
	"strings"
)

// BuildSources converts list configuration into loadable sources, keeping the
// configured order. Entries with only an ID are resolved through catalog.
func BuildSources(catalog map[string]ListDefinition, configs []ListConfig) ([]Source, error) {
	sources := make([]Source, 0, len(configs))

	for i, cfg := range configs {
		id := strings.ToLower(strings.TrimSpace(cfg.ID))
		name := strings.TrimSpace(cfg.Name)
		location := strings.TrimSpace(cfg.URL)

		if id != "" {
			def, ok := catalog[id]
			if !ok && location == "" {
				return nil, fmt.Errorf("list %d: unknown catalog id %q", i+1, id)
			}
			if location == "" {
				location = def.URL
			}
			if name == "" {
				name = def.Name
			}
		}
		if location == "" {
			return nil, fmt.Errorf("list %d: url or id is required", i+1)
		}
		if name == "" {
			name = fmt.Sprintf("list_%d", i+1)
		}

		sources = append(sources, Source{
			ID:       id,
			Name:     name,
			Location: location,
			Auth: AuthConfig{
				Username: cfg.Username,
				Password: cfg.Password,
				Token:    cfg.Token,
				Header:   cfg.Header,
				Scheme:   cfg.Scheme,
			},
		})
	}

	return sources, nil
}
