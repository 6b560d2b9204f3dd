package attrs

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// File is a TOML attribute file with one table per directive:
//
//	[tagsInput]
//	minLength = 2
//	placeholder = "Add a colour"
//
//	[autoComplete]
//	debounceDelay = 250
//
// Scalar values of any TOML type are converted to their string form.
type File struct {
	mu   sync.Mutex
	path string
	sets map[string]*Set
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attribute file %s: %w", path, err)
	}
	tables, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	f := &File{path: path, sets: make(map[string]*Set, len(tables))}
	for directive, values := range tables {
		f.sets[directive] = NewSet(values)
	}
	return f, nil
}

// ParseFile parses data without a backing path. Reload on the result
// returns ErrNoPath.
func ParseFile(data []byte) (*File, error) {
	tables, err := parse("<bytes>", data)
	if err != nil {
		return nil, err
	}
	f := &File{sets: make(map[string]*Set, len(tables))}
	for directive, values := range tables {
		f.sets[directive] = NewSet(values)
	}
	return f, nil
}

// Path returns the file path, empty for parsed data.
func (f *File) Path() string {
	return f.path
}

// Directive returns the attribute set of a directive table. A directive
// missing from the file yields an empty set that later reloads fill in.
func (f *File) Directive(name string) *Set {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sets[name]
	if !ok {
		s = NewSet(nil)
		f.sets[name] = s
	}
	return s
}

// Directives returns the known directive names in sorted order.
func (f *File) Directives() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.sets))
	for k := range f.sets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reload re-reads the file and replaces every directive set, notifying
// observers of the values that changed. On error the previous values are
// kept.
func (f *File) Reload() ([]Change, error) {
	if f.path == "" {
		return nil, ErrNoPath
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading attribute file %s: %w", f.path, err)
	}
	tables, err := parse(f.path, data)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	sets := make(map[string]*Set, len(f.sets)+len(tables))
	for name, s := range f.sets {
		sets[name] = s
	}
	for name := range tables {
		if _, ok := sets[name]; !ok {
			s := NewSet(nil)
			f.sets[name] = s
			sets[name] = s
		}
	}
	f.mu.Unlock()

	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	var changes []Change
	for _, name := range names {
		changes = append(changes, sets[name].Replace(tables[name], f.path)...)
	}
	return changes, nil
}

func parse(source string, data []byte) (map[string]map[string]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	tables := make(map[string]map[string]string, len(raw))
	for directive, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			return nil, &ParseError{
				Path:    source,
				Message: fmt.Sprintf("top-level key %q must be a table", directive),
			}
		}
		values := make(map[string]string, len(table))
		for name, value := range table {
			s, ok := stringify(value)
			if !ok {
				return nil, &ParseError{
					Path:    source,
					Message: fmt.Sprintf("%s.%s must be a scalar, got %T", directive, name, value),
				}
			}
			values[name] = s
		}
		tables[directive] = values
	}
	return tables, nil
}

func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case time.Time:
		return x.Format(time.RFC3339Nano), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}
