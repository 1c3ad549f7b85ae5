package api

import (
	"bytes"   // Raw JSON inspection
	"errors"  // Error values
	"strconv" // Numeric parsing
	"strings" // Trimming

	"github.com/gin-gonic/gin" // Gin web framework
)

var errInvalidID = errors.New("invalid id") // Malformed identifier

// FlexID is an identifier that arrives either as a JSON number or a numeric string
type FlexID uint

// UnmarshalJSON accepts 42, 42.0 and "42"
func (f *FlexID) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`)) // Strip string quotes if present
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	*f = FlexID(id)
	return nil
}

// parseID parses a positive integral identifier
func parseID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil && n > 0 {
		return uint(n), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f != float64(uint64(f)) {
		return 0, errInvalidID // Rejects fractions, negatives and junk
	}
	return uint(f), nil
}

// paramID reads a positive integral path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := parseID(c.Param(name))
	return id, err == nil
}
