// Package option models selection choices as a closed union of Label and Entry.
package option

import (
	"strconv" // Id parsing
	"strings" // Case-insensitive matching

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Shared models
)

// Option is either a Label or an Entry. The unexported methods keep the set closed.
type Option interface {
	matches(value string) bool
	display() string
	value() string
}

// Label is a plain text choice, e.g. a status filter
type Label string

func (l Label) matches(v string) bool { return strings.EqualFold(string(l), strings.TrimSpace(v)) }
func (l Label) display() string       { return string(l) }
func (l Label) value() string         { return string(l) }

// Entry is a choice backed by a record id, e.g. a brand
type Entry struct {
	ID   uint   // Matched by decimal value
	Name string // Matched case-insensitively
}

// matches accepts the decimal id or the name
func (e Entry) matches(v string) bool {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseUint(v, 10, 64); err == nil {
		return uint(n) == e.ID
	}
	return strings.EqualFold(e.Name, v)
}

func (e Entry) display() string { return e.Name + " (" + e.value() + ")" }
func (e Entry) value() string   { return strconv.FormatUint(uint64(e.ID), 10) }

// Matches is the single comparison between an option and user input
func Matches(opt Option, value string) bool {
	return opt != nil && opt.matches(value)
}

// Display renders an option for a listing
func Display(opt Option) string {
	if opt == nil {
		return ""
	}
	return opt.display()
}

// Value is the canonical form of an option: the text of a Label, the id of an Entry
func Value(opt Option) string {
	if opt == nil {
		return ""
	}
	return opt.value()
}

// Find returns the first option matching value
func Find(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if Matches(o, value) {
			return o, true
		}
	}
	return nil, false
}

// Labels builds Label options
func Labels(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Label(v)
	}
	return opts
}

// Brands builds Entry options from brands
func Brands(brands []domain.Brand) []Option {
	opts := make([]Option, len(brands))
	for i, b := range brands {
		opts[i] = Entry{ID: b.ID, Name: b.Name}
	}
	return opts
}

// Categories builds Entry options from categories
func Categories(categories []domain.Category) []Option {
	opts := make([]Option, len(categories))
	for i, c := range categories {
		opts[i] = Entry{ID: c.ID, Name: c.Name}
	}
	return opts
}

// StatusFilter lists the release statuses a catalog can be filtered by
func StatusFilter() []Option {
	return Labels(string(domain.StatusUpcoming), string(domain.StatusReleased))
}
