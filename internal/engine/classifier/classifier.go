package classifier

import "github.com/crimson-sun/eventlogtrack/internal/model"

// FailOperation is the operation value hosts use for denied or failed actions.
const FailOperation = "fail"

// Classifier assigns a severity to an event before it is formatted.
type Classifier struct{}

// New creates a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify returns Warning for failed operations and Notice for everything else.
func (c *Classifier) Classify(operation string) model.Severity {
	if operation == FailOperation {
		return model.Warning
	}
	return model.Notice
}
