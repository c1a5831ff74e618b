package serial

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds the known categories keyed by code.
type Registry struct {
	mu         sync.RWMutex
	categories map[string]Category
}

// NewRegistry creates a registry from cats. Codes are case-insensitive.
func NewRegistry(cats ...Category) (*Registry, error) {
	r := &Registry{categories: make(map[string]Category, len(cats))}
	for _, c := range cats {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry holding DefaultCategories.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultCategories()...)
	if err != nil {
		panic(fmt.Sprintf("serial: invalid default categories: %v", err))
	}
	return r
}

// Register adds or replaces a category.
func (r *Registry) Register(c Category) error {
	c.Code = normalizeCode(c.Code)
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.categories[c.Code] = c
	r.mu.Unlock()
	return nil
}

// Get returns the category for code.
func (r *Registry) Get(code string) (Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[normalizeCode(code)]
	return c, ok
}

// All returns every category sorted by code.
func (r *Registry) All() []Category {
	r.mu.RLock()
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// fileConfig is the layout of a categories YAML file.
type fileConfig struct {
	Categories []Category `yaml:"categories"`
}

// Load reads categories from YAML data and registers them over the existing ones.
func (r *Registry) Load(data []byte) error {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse categories: %w", err)
	}

	// validate everything first so a bad file leaves the registry untouched
	seen := make(map[string]bool, len(cfg.Categories))
	for i := range cfg.Categories {
		c := &cfg.Categories[i]
		c.Code = normalizeCode(c.Code)
		if seen[c.Code] {
			return fmt.Errorf("duplicate category %s", c.Code)
		}
		seen[c.Code] = true
		if err := c.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	for _, c := range cfg.Categories {
		r.categories[c.Code] = c
	}
	r.mu.Unlock()
	return nil
}

// LoadFile reads categories from a YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read categories file: %w", err)
	}
	if err := r.Load(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
