// internal/domain/catalog/attributes.go
package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Attributes is the canonical string-keyed form of a variant attribute set,
// e.g. {"Color": "Red", "Size": "M"}. Stored as jsonb.
type Attributes map[string]string

// NormalizeAttributes converts any key/value-bearing representation (string
// maps, interface maps, JSON-decoded payloads) into canonical Attributes.
// Absence yields an empty mapping; non-string values coerce to their string
// form. It never fails.
func NormalizeAttributes(raw interface{}) Attributes {
	if raw == nil {
		return Attributes{}
	}

	if attrs, ok := raw.(Attributes); ok {
		out := make(Attributes, len(attrs))
		for k, v := range attrs {
			out[k] = v
		}
		return out
	}

	m, err := cast.ToStringMapStringE(raw)
	if err != nil {
		generic, err := cast.ToStringMapE(raw)
		if err != nil {
			return Attributes{}
		}
		m = make(map[string]string, len(generic))
		for k, v := range generic {
			m[k] = cast.ToString(v)
		}
	}

	out := make(Attributes, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports whether two attribute sets carry identical keys and, per key,
// values that match after trimming surrounding whitespace.
func (a Attributes) Equal(other Attributes) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		ov, ok := other[k]
		if !ok || strings.TrimSpace(v) != strings.TrimSpace(ov) {
			return false
		}
	}
	return true
}

// Contains reports whether every (key, value) pair in subset is present in a,
// comparing values trim-insensitively. Extra keys on a are tolerated.
func (a Attributes) Contains(subset Attributes) bool {
	for k, v := range subset {
		av, ok := a[k]
		if !ok || strings.TrimSpace(av) != strings.TrimSpace(v) {
			return false
		}
	}
	return true
}

// Key returns a deterministic string key for the attribute set: sorted
// "k=v" pairs with trimmed values. Used to deduplicate cart lines.
func (a Attributes) Key() string {
	if len(a) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(a))
	for k, v := range a {
		pairs = append(pairs, k+"="+strings.TrimSpace(v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ";")
}

// Value implements driver.Valuer so gorm can persist the set as jsonb.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (a *Attributes) Scan(value interface{}) error {
	if value == nil {
		*a = Attributes{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes column type %T", value)
	}

	if len(data) == 0 {
		*a = Attributes{}
		return nil
	}
	return json.Unmarshal(data, a)
}
