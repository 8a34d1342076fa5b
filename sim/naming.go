package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention:
//  1. Names are hierarchical, with elements separated by dots ("System.CPU").
//  2. No element may be empty ("System..CPU" is invalid).
//  3. Every element starts with a capital letter and contains no '_', '-',
//     or quotes.
//  4. Elements in a series use square-bracket indices ("Slot[3]").
func NameMustBeValid(name string) {
	if err := validateName(name); err != nil {
		panic(fmt.Sprintf("name %q is not valid: %s", name, err))
	}
}

func validateName(name string) error {
	for _, elem := range strings.Split(name, ".") {
		base, err := stripIndices(elem)
		if err != nil {
			return err
		}

		if base == "" {
			return fmt.Errorf("element must not be empty")
		}

		if strings.ContainsAny(base, "_-\"'") {
			return fmt.Errorf("element %q contains an invalid character", base)
		}

		if base[0] < 'A' || base[0] > 'Z' {
			return fmt.Errorf("element %q must start with a capital letter", base)
		}
	}

	return nil
}

func stripIndices(elem string) (string, error) {
	open := strings.IndexByte(elem, '[')
	if open < 0 {
		if strings.ContainsRune(elem, ']') {
			return "", fmt.Errorf("brackets must match")
		}

		return elem, nil
	}

	rest := elem[open:]
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end < 0 {
			return "", fmt.Errorf("brackets must match")
		}

		if _, err := strconv.Atoi(rest[1:end]); err != nil {
			return "", fmt.Errorf("index must be an integer")
		}

		rest = rest[end+1:]
	}

	return elem[:open], nil
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
