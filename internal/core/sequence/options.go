package sequence

import (
	"fmt"
	"strings"
)

// Strategy defines how a caller obtains numbers from the store.
type Strategy int

const (
	// StrategyStrict performs one atomic upsert per allocation.
	// Values are globally increasing; suitable for invoices and accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached reserves blocks of RangeSize values and serves them from memory.
	// Values stay unique across processes but may leave gaps after a restart,
	// and are only increasing within one process.
	StrategyCached
)

// DefaultRangeSize is the block size reserved by the cached strategy.
const DefaultRangeSize int64 = 50

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case StrategyCached:
		return "cached"
	default:
		return "strict"
	}
}

// ParseStrategy converts a configuration value into a Strategy.
// An empty string selects StrategyStrict.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return StrategyStrict, nil
	case "cached":
		return StrategyCached, nil
	default:
		return StrategyStrict, fmt.Errorf("unknown sequence strategy %q", s)
	}
}

// UnmarshalText lets Strategy be decoded from YAML and JSON strings.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
