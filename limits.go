package seekpager

import "fmt"

const (
	NoLimit      = -1
	MaxLimit     = 100
	DefaultLimit = 10
)

func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}

// ValidateLimit rejects non-positive and out-of-bounds page sizes. Unlike
// NormalizeLimit it does not substitute a default; use it on strict request
// paths where a bad limit must surface to the caller.
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidLimit, limit)
	}
	if limit > MaxLimit {
		return fmt.Errorf("%w: limit %d exceeds maximum %d", ErrInvalidLimit, limit, MaxLimit)
	}

	return nil
}
