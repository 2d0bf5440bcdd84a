// Package schema holds the JSON-Schema documents for the payloads this module
// accepts from outside (course tables, search API responses) and validates raw
// JSON against them.
package schema

// CourseTable describes {"CS10001": "Programming and Data Structures", ...}.
func CourseTable() map[string]any {
	return map[string]any{
		"type":          "object",
		"propertyNames": map[string]any{"pattern": `^[A-Za-z]{2}\d{5}$`},
		"additionalProperties": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
	}
}

// SearchResult describes one record of the search API.
func SearchResult() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "integer"},
			"course_name": map[string]any{"type": "string"},
			"course_code": map[string]any{"type": "string"},
			"year":        map[string]any{"type": "integer", "minimum": 0},
			"exam":        map[string]any{"type": "string"},
			"semester":    map[string]any{"type": "string"},
			"note":        map[string]any{"type": "string"},
			"filelink":    map[string]any{"type": "string"},
		},
		"required": []string{"id", "course_name", "year", "filelink"},
	}
}

// SearchResults is a bare array of SearchResult.
func SearchResults() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": SearchResult(),
	}
}

// SearchEnvelope is the API's success wrapper around SearchResults.
func SearchEnvelope() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status":      map[string]any{"const": "success"},
			"message":     map[string]any{"type": "string"},
			"status_code": map[string]any{"type": "integer"},
			"data":        SearchResults(),
		},
		"required": []string{"status", "data"},
	}
}
