package wishlist

import (
	"encoding/json" // JSON numbers
	"fmt"           // Error formatting
	"math"          // Integral checks
	"strconv"       // Id parsing
	"strings"       // Input trimming

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient" // Client errors
)

// ShoeID is the normalised identifier of a shoe in the working set
type ShoeID uint

func (id ShoeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseShoeID normalises numeric and string-shaped ids to a ShoeID.
// 42, 42.0, "42" and json.Number("42") all yield the same id.
func ParseShoeID(v any) (ShoeID, error) {
	switch x := v.(type) {
	case ShoeID:
		return positive(uint64(x), v)
	case uint:
		return positive(uint64(x), v)
	case uint32:
		return positive(uint64(x), v)
	case uint64:
		return positive(x, v)
	case int:
		return signed(int64(x), v)
	case int32:
		return signed(int64(x), v)
	case int64:
		return signed(x, v)
	case float64:
		if x != math.Trunc(x) || x < 1 || x > math.MaxUint32 {
			return 0, invalid(v)
		}
		return ShoeID(x), nil
	case json.Number:
		return ParseShoeID(string(x))
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return positive(n, v)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, invalid(v)
		}
		return ParseShoeID(f)
	}
	return 0, invalid(v)
}

func signed(n int64, v any) (ShoeID, error) {
	if n < 1 {
		return 0, invalid(v)
	}
	return positive(uint64(n), v)
}

func positive(n uint64, v any) (ShoeID, error) {
	if n == 0 || n > math.MaxUint32 {
		return 0, invalid(v)
	}
	return ShoeID(n), nil
}

func invalid(v any) error {
	return fmt.Errorf("shoe id %v: %w", v, apiclient.ErrInvalidInput)
}
