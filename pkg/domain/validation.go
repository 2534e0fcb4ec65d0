package domain

// ValidationResult is the outcome of semantic validation. The compiler
// core never produces one of these; validation is a service concern and
// its messages are displayed verbatim.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
