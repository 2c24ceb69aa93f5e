package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientContent matches any InsufficientContentError via errors.Is.
	ErrInsufficientContent = errors.New("insufficient content")
	// ErrPreloadFailed is wrapped around the first failed image preload.
	ErrPreloadFailed = errors.New("image preload failed")
)

// InsufficientContentError reports that fewer than Wanted reachable items were found.
type InsufficientContentError struct {
	Wanted int
	Found  int
	Probed int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("insufficient content: wanted %d pairs, found %d after probing %d items", e.Wanted, e.Found, e.Probed)
}

func (e *InsufficientContentError) Is(target error) bool {
	return target == ErrInsufficientContent
}
