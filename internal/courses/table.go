// Package courses holds the static course-code to course-name table used to
// name autofilled drafts. A Table is immutable after Load and safe for
// concurrent use.
package courses

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/joseph-ayodele/papers-tracker/internal/common"
	"github.com/joseph-ayodele/papers-tracker/internal/schema"
)

// UnknownCourse is the sentinel used when a code or name cannot be resolved.
const UnknownCourse = "Unknown Course"

//go:embed courses.json
var embedded []byte

type Table struct {
	byCode map[string]string
	byName map[string]string
}

// Default returns the table compiled into the binary.
func Default() *Table {
	t, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded course table: %v", err))
	}
	return t
}

// Load reads a course table from path, or the embedded one when path is empty.
func Load(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		t := Default()
		logger.Debug("using embedded course table", "courses", t.Len())
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read course table")
	}
	t, err := Parse(b)
	if err != nil {
		logger.Error("invalid course table", "path", path, "error", err)
		return nil, err
	}
	logger.Info("loaded course table", "path", path, "courses", t.Len())
	return t, nil
}

// Parse validates raw JSON ({"CS10001": "Programming and Data Structures", ...})
// against the course table schema and builds both lookup directions.
func Parse(raw []byte) (*Table, error) {
	if err := schema.Validate(schema.CourseTable(), raw); err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, common.WrapError(err, "decode course table")
	}
	return FromMap(m), nil
}

// FromMap builds a Table from code -> name pairs. Codes are upper-cased
// before anything else, so "ma10104" and "MA10104" are the same code; when
// both are given, the upper-case spelling's name wins. When several codes
// share a name, the reverse lookup returns the smallest code.
func FromMap(m map[string]string) *Table {
	t := &Table{
		byCode: make(map[string]string, len(m)),
		byName: make(map[string]string, len(m)),
	}
	keys := make([]string, 0, len(m))
	for code := range m {
		keys = append(keys, code)
	}
	// upper-case spellings sort before their lower-case twins
	sort.Slice(keys, func(i, j int) bool {
		ui, uj := strings.ToUpper(keys[i]), strings.ToUpper(keys[j])
		if ui != uj {
			return ui < uj
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		code := strings.ToUpper(key)
		if _, seen := t.byCode[code]; seen {
			continue
		}
		name := m[key]
		t.byCode[code] = name
		if _, dup := t.byName[name]; !dup {
			t.byName[name] = code
		}
	}
	return t
}

// NameFor returns the course name for code, matching case-insensitively.
func (t *Table) NameFor(code string) (string, bool) {
	name, ok := t.byCode[strings.ToUpper(code)]
	return name, ok
}

// CodeFor is the reverse lookup; name must match exactly.
func (t *Table) CodeFor(name string) (string, bool) {
	code, ok := t.byName[name]
	return code, ok
}

// NameOrUnknown resolves code, falling back to UnknownCourse.
func (t *Table) NameOrUnknown(code string) string {
	if name, ok := t.NameFor(code); ok {
		return name
	}
	return UnknownCourse
}

func (t *Table) Len() int { return len(t.byCode) }
