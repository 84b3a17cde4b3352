package ring

import (
	"fmt"

	"github.com/turtacn/molsdg/pkg/errors"
)

// Severity grades a Diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a recoverable problem found while analysing or drawing a
// ring group. Ring is -1 for group-level findings.
type Diagnostic struct {
	Code     errors.ErrorCode `json:"code"`
	Severity Severity         `json:"severity"`
	Message  string           `json:"message"`
	Group    int              `json:"group"`
	Ring     int              `json:"ring"`
	Atoms    []int            `json:"atoms,omitempty"`
}

// Err converts d to an AppError carrying the same code.
func (d Diagnostic) Err() *errors.AppError {
	detail := fmt.Sprintf("group=%d", d.Group)
	if d.Ring >= 0 {
		detail += fmt.Sprintf(" ring=%d", d.Ring)
	}
	return errors.New(d.Code, d.Message).WithDetail(detail)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s (group %d, ring %d)", d.Severity, d.Code, d.Message, d.Group, d.Ring)
}

//Personal.AI order the ending
