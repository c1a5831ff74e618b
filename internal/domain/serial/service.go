package serial

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/numbering"
	"backoffice/internal/core/sequence"
	"backoffice/pkg/logger"
)

// MaxFiles caps the number of documents numbered in one Reserve call.
const MaxFiles = 1000

// Hint is a non-binding preview of the next serial of a category.
// Another caller may take the number before it is reserved.
type Hint struct {
	Category string
	Sequence string
	Number   int64
	Label    string
}

// Binding is always false: a hint never reserves anything.
func (Hint) Binding() bool { return false }

// Reservation holds serials issued to one caller. They are never issued again.
type Reservation struct {
	Category string
	Sequence string
	Numbers  []int64
	Labels   []string
}

// Service numbers documents of the registered categories.
type Service struct {
	registry   *Registry
	allocators map[sequence.Strategy]sequence.Allocator
	log        *logger.Logger
}

// NewService creates a serial service. allocators maps each strategy to the
// allocator serving it; StrategyStrict is required.
func NewService(registry *Registry, allocators map[sequence.Strategy]sequence.Allocator) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("serial: registry is required")
	}
	if allocators[sequence.StrategyStrict] == nil {
		return nil, fmt.Errorf("serial: strict allocator is required")
	}
	return &Service{
		registry:   registry,
		allocators: allocators,
		log:        logger.Default().WithComponent("serial"),
	}, nil
}

// NeedsSerial reports whether documents of category must be numbered.
// Unknown categories are never numbered.
func (s *Service) NeedsSerial(category string) bool {
	c, ok := s.registry.Get(category)
	return ok && c.NeedsSerial()
}

// Categories returns the registered categories.
func (s *Service) Categories() []Category {
	return s.registry.All()
}

// Preview returns the label the next document of category would get at time at.
func (s *Service) Preview(ctx context.Context, category string, at time.Time) (Hint, error) {
	cat, alloc, err := s.resolve(category)
	if err != nil {
		return Hint{}, err
	}

	name := numbering.SequenceName(cat.Numbering, at)
	p, err := alloc.PreviewNext(ctx, name)
	if err != nil {
		return Hint{}, err
	}

	return Hint{
		Category: cat.Code,
		Sequence: name,
		Number:   p.Next,
		Label:    numbering.Format(cat.Numbering, at, p.Next),
	}, nil
}

// Reserve issues serials for files documents of category filed at time at.
// A single document takes one AllocateNext; more take one contiguous batch.
func (s *Service) Reserve(ctx context.Context, category string, files int, at time.Time) (Reservation, error) {
	if files <= 0 || files > MaxFiles {
		return Reservation{}, apperror.NewValidation("files must be between 1 and 1000").
			WithDetail("field", "files").
			WithDetail("value", files)
	}

	cat, alloc, err := s.resolve(category)
	if err != nil {
		return Reservation{}, err
	}

	name := numbering.SequenceName(cat.Numbering, at)

	var numbers []int64
	if files == 1 {
		v, err := alloc.AllocateNext(ctx, name)
		if err != nil {
			return Reservation{}, err
		}
		numbers = []int64{v}
	} else {
		rng, err := alloc.AllocateBatch(ctx, name, int64(files))
		if err != nil {
			return Reservation{}, err
		}
		numbers = rng.Values()
	}

	labels := numbering.FormatAll(cat.Numbering, at, numbers)
	s.log.WithContext(ctx).Infow("serials reserved",
		"category", cat.Code, "sequence", name, "first", labels[0], "count", len(labels))

	return Reservation{
		Category: cat.Code,
		Sequence: name,
		Numbers:  numbers,
		Labels:   labels,
	}, nil
}

func (s *Service) resolve(category string) (Category, sequence.Allocator, error) {
	cat, ok := s.registry.Get(category)
	if !ok {
		return Category{}, nil, apperror.NewNotFound("serial category", category)
	}
	if !cat.UsesSerial() {
		return Category{}, nil, apperror.NewBusinessRule(apperror.CodeSerialNotUsed,
			"documents of this category are not numbered").
			WithDetail("category", cat.Code)
	}

	alloc := s.allocators[cat.Strategy]
	if alloc == nil {
		alloc = s.allocators[sequence.StrategyStrict]
	}
	return cat, alloc, nil
}
