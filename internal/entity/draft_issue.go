package entity

// FieldIssue is a non-blocking validity note attached to one field of a draft.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
