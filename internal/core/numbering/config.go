// Package numbering turns allocated integers into human-facing document labels.
// It sits on the caller side of the sequence allocator: the allocator deals
// only in integers, this package decides prefixes, padding and reset periods.
package numbering

import (
	"fmt"
	"strings"
)

// ResetPeriod controls how often a category starts a fresh counter.
type ResetPeriod string

const (
	ResetNever ResetPeriod = "never"
	ResetYear  ResetPeriod = "year"
	ResetMonth ResetPeriod = "month"
)

// DefaultPadWidth is the minimum number width when none is configured.
const DefaultPadWidth = 5

// Config holds labelling configuration for one document category.
type Config struct {
	// Prefix added to all labels (e.g., "INV", "EXP")
	Prefix string `yaml:"prefix" json:"prefix"`

	// IncludeYear adds the year to the label
	IncludeYear bool `yaml:"include_year" json:"include_year"`

	// PadWidth is the minimum number width (default 5)
	PadWidth int `yaml:"pad_width" json:"pad_width"`

	// ResetPeriod selects a fresh counter per year or month
	ResetPeriod ResetPeriod `yaml:"reset_period" json:"reset_period"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    DefaultPadWidth,
		ResetPeriod: ResetYear,
	}
}

// Validate checks the configuration for values Format cannot honour.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Prefix) == "" {
		return fmt.Errorf("numbering prefix is required")
	}
	if strings.Contains(c.Prefix, "-") {
		return fmt.Errorf("numbering prefix %q must not contain '-'", c.Prefix)
	}
	if c.PadWidth < 0 || c.PadWidth > 18 {
		return fmt.Errorf("pad width %d out of range", c.PadWidth)
	}
	switch c.ResetPeriod {
	case "", ResetNever, ResetYear, ResetMonth:
	default:
		return fmt.Errorf("unknown reset period %q", c.ResetPeriod)
	}
	return nil
}
