package pagination

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the catalog page size when none is configured.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows a page query can request.
	MaxPageSize = 100
)

// ErrInvalidPage reports a page value that is not a positive integer.
var ErrInvalidPage = errors.New("page must be a positive integer")

// Page describes one slice of a numbered listing.
type Page struct {
	Number   int
	Size     int
	Total    int64
	NumPages int
}

// NormalizeSize enforces the default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ParseNumber reads a 1-based page number; an empty value means page 1.
func ParseNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

// New builds the page descriptor for the given number, size and row count.
func New(number, size int, total int64) Page {
	size = NormalizeSize(size)
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages == 0 {
		numPages = 1
	}
	return Page{Number: number, Size: size, Total: total, NumPages: numPages}
}

// InRange reports whether the page exists. Page 1 always exists so an empty
// listing renders as an empty first page.
func (p Page) InRange() bool {
	return p.Number >= 1 && p.Number <= p.NumPages
}

// Offset is the number of rows preceding the page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}
