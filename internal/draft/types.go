package draft

import (
	"errors"
	"fmt"
)

// Candidate is one validated email draft produced by the pipeline.
type Candidate struct {
	Subject  string
	BodyHTML string
}

// Areas is the fixed set of professional areas a draft may be tagged with.
var Areas = []string{
	"Marketing", "Sales", "HR", "Finance", "Operations", "Product",
	"Engineering", "Management", "Customer Support", "Legal", "IT",
	"Design", "Research", "Strategy", "PR", "Business Development",
	"Analytics", "Education", "Healthcare", "Consulting",
}

// ValidArea reports whether area is one of the fixed professional areas.
func ValidArea(area string) bool {
	for _, a := range Areas {
		if a == area {
			return true
		}
	}
	return false
}

// ErrNoAPIKey indicates the generation service key is not configured.
var ErrNoAPIKey = errors.New("OPENROUTER_API_KEY not set")

// ServiceError represents a non-success response from the generation
// service. Body is truncated to a diagnostic excerpt.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("generation service error [%d]: %s", e.Status, e.Body)
}

// ParseError indicates no draft object could be recovered from the model
// output. Raw carries the full response text for diagnosis.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no draft objects found in model output (%d bytes)", len(e.Raw))
}
