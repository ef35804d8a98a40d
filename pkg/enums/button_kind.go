package enums

import "fmt"

// ButtonKind names the storefront toggle a shopper pressed.
type ButtonKind string

const (
	ButtonKindFavorite ButtonKind = "favorite"
	ButtonKindCart     ButtonKind = "cart"
)

var validButtonKinds = []ButtonKind{
	ButtonKindFavorite,
	ButtonKindCart,
}

// String implements fmt.Stringer.
func (b ButtonKind) String() string {
	return string(b)
}

// IsValid reports whether the value is a known ButtonKind.
func (b ButtonKind) IsValid() bool {
	for _, candidate := range validButtonKinds {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseButtonKind converts raw input into a ButtonKind.
func ParseButtonKind(value string) (ButtonKind, error) {
	for _, candidate := range validButtonKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid button kind %q", value)
}
