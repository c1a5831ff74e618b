// Package serial decides which document categories carry serial numbers and
// turns allocated sequence values into document labels.
//
// The allocator itself knows nothing about categories: whether a document gets
// a serial at all is decided here, before the allocator is called.
package serial

import (
	"fmt"
	"strings"

	"backoffice/internal/core/numbering"
	"backoffice/internal/core/sequence"
)

// Policy says whether documents of a category get a serial number.
type Policy string

const (
	// PolicyRequired: every document is numbered when it is filed.
	PolicyRequired Policy = "required"
	// PolicyOptional: the caller may reserve a number, but does not have to.
	PolicyOptional Policy = "optional"
	// PolicyNone: the category is never numbered; reservation is refused.
	PolicyNone Policy = "none"
)

// Category describes how one kind of document is numbered.
type Category struct {
	Code      string            `yaml:"code" json:"code"`
	Name      string            `yaml:"name" json:"name"`
	Serial    Policy            `yaml:"serial" json:"serial"`
	Numbering numbering.Config  `yaml:"numbering" json:"numbering"`
	Strategy  sequence.Strategy `yaml:"strategy" json:"strategy"`
}

// NeedsSerial reports whether every document of the category must be numbered.
func (c Category) NeedsSerial() bool {
	return c.Serial == PolicyRequired
}

// UsesSerial reports whether documents of the category can be numbered at all.
func (c Category) UsesSerial() bool {
	return c.Serial == PolicyRequired || c.Serial == PolicyOptional
}

// Validate checks the category definition.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("category code is required")
	}
	switch c.Serial {
	case PolicyRequired, PolicyOptional:
		if err := c.Numbering.Validate(); err != nil {
			return fmt.Errorf("category %s: %w", c.Code, err)
		}
	case PolicyNone:
	default:
		return fmt.Errorf("category %s: unknown serial policy %q", c.Code, c.Serial)
	}
	return nil
}

// DefaultCategories returns the built-in document categories.
func DefaultCategories() []Category {
	year := func(prefix string) numbering.Config {
		return numbering.DefaultConfig(prefix)
	}
	plain := func(prefix string) numbering.Config {
		return numbering.Config{Prefix: prefix, PadWidth: numbering.DefaultPadWidth, ResetPeriod: numbering.ResetNever}
	}

	return []Category{
		{Code: "INVOICE", Name: "Invoice", Serial: PolicyRequired, Numbering: year("INV"), Strategy: sequence.StrategyStrict},
		{Code: "CREDIT_NOTE", Name: "Credit note", Serial: PolicyRequired, Numbering: year("CRN"), Strategy: sequence.StrategyStrict},
		{Code: "GOODS_RECEIPT", Name: "Goods receipt", Serial: PolicyOptional, Numbering: year("GR"), Strategy: sequence.StrategyCached},
		{Code: "GOODS_ISSUE", Name: "Goods issue", Serial: PolicyOptional, Numbering: year("GI"), Strategy: sequence.StrategyCached},
		{Code: "SHIPMENT", Name: "Shipment", Serial: PolicyOptional, Numbering: plain("SHP"), Strategy: sequence.StrategyStrict},
		{Code: "INVENTORY_NOTE", Name: "Inventory note", Serial: PolicyNone},
	}
}
