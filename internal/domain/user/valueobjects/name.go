package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

// Names are 3 to 100 letters (latin, including accented) and spaces.
var nameRegex = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]{3,100}$`)

type Name string

func NewName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	if !nameRegex.MatchString(trimmed) {
		return "", fmt.Errorf("name must be 3 to 100 letters or spaces")
	}
	return Name(trimmed), nil
}

func (n Name) String() string {
	return string(n)
}
