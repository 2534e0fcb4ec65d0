package domain

// Persona is an agent persona record managed alongside the workflow
// document. It shares the document store's request/response lifecycle but
// is unrelated to the graph compiler.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}
