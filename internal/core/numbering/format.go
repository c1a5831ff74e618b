package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SequenceName derives the counter name for cfg at period.
// Categories that reset yearly or monthly get one counter per period.
func SequenceName(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case ResetMonth:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case ResetYear:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// Format creates the label for num, e.g. INV-2026-00001 or EXP-00042.
func Format(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = DefaultPadWidth
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// FormatAll formats every number in nums.
func FormatAll(cfg Config, period time.Time, nums []int64) []string {
	labels := make([]string, len(nums))
	for i, n := range nums {
		labels[i] = Format(cfg, period, n)
	}
	return labels
}

// Parse extracts the numeric part from a formatted label.
// Returns -1 if parsing fails.
func Parse(label string) int64 {
	idx := strings.LastIndex(label, "-")
	if idx <= 0 || idx == len(label)-1 {
		return -1
	}
	num, err := strconv.ParseInt(label[idx+1:], 10, 64)
	if err != nil || num < 0 {
		return -1
	}
	return num
}
