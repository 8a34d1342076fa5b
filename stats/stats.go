// Package stats reads the flat statistics files that engines write at the
// end of a run.
package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// File holds the entries of a statistics file. When a key appears more than
// once, the last entry wins.
type File struct {
	Name   string
	values map[string]string
	keys   []string
}

// ParseFile reads a statistics file.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stats, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	stats.Name = path

	return stats, nil
}

// Parse reads statistics from r. Two line forms are accepted:
//
//	key value # comment
//	key :: value # comment
//
// Blank lines and lines starting with "----" are skipped.
func Parse(r io.Reader) (*File, error) {
	f := &File{values: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "----") {
			continue
		}

		key, value, err := splitEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		f.set(key, value)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return f, nil
}

func splitEntry(line string) (key, value string, err error) {
	fields := strings.Fields(line)

	switch {
	case len(fields) >= 3 && fields[1] == "::":
		return fields[0], fields[2], nil
	case len(fields) >= 2:
		return fields[0], fields[1], nil
	default:
		return "", "", fmt.Errorf("entry %q has no value", line)
	}
}

func (f *File) set(key, value string) {
	if _, found := f.values[key]; !found {
		f.keys = append(f.keys, key)
	}

	f.values[key] = value
}

// Keys returns the keys in the order they first appear.
func (f *File) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Value returns the raw value of a key.
func (f *File) Value(key string) (string, bool) {
	v, found := f.values[key]
	return v, found
}

// Float returns the value of a key as a number.
func (f *File) Float(key string) (float64, error) {
	raw, found := f.values[key]
	if !found {
		return 0, &MissingKeyError{File: f.Name, Key: key}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &NotNumericError{File: f.Name, Key: key, Value: raw}
	}

	return v, nil
}

// FirstFloat returns the value of the first key that is present. It also
// returns the key used.
func (f *File) FirstFloat(keys ...string) (float64, string, error) {
	for _, k := range keys {
		if _, found := f.values[k]; found {
			v, err := f.Float(k)
			return v, k, err
		}
	}

	return 0, "", &MissingKeyError{File: f.Name, Key: strings.Join(keys, " | ")}
}

// MissingKeyError is returned when a statistic is not in the file.
type MissingKeyError struct {
	File string
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("statistic %s not found in %s", e.Key, e.File)
}

// NotNumericError is returned when a statistic is not a number.
type NotNumericError struct {
	File  string
	Key   string
	Value string
}

func (e *NotNumericError) Error() string {
	return fmt.Sprintf("statistic %s in %s is not numeric: %q",
		e.Key, e.File, e.Value)
}
