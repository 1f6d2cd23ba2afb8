package inherit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/StinkyLord/horizon-pool/internal/model"
)

// ErrCyclicInheritance matches any CycleError via errors.Is.
var ErrCyclicInheritance = errors.New("cyclic inheritance")

// CycleError reports a chain of base references that leads back to a part
// already being resolved for the same field.
type CycleError struct {
	Field model.Field
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("inherit: cyclic inheritance on %s: %s", e.Field, strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicInheritance
}

// ShapeError is returned when a resolved value does not have the Go type
// expected for its field.
type ShapeError struct {
	Field model.Field
	Got   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("inherit: field %s resolved to unexpected type %s", e.Field, e.Got)
}

// Reason classifies a base reference problem.
type Reason string

const (
	ReasonMissingBase Reason = "missing base"
	ReasonUnknownBase Reason = "unknown base"
)

// Diagnostic records a field that fell back to its policy default because
// the part's base could not be used.
type Diagnostic struct {
	UUID   string
	Base   string
	Field  model.Field
	Reason Reason
}

func (d Diagnostic) String() string {
	if d.Base == "" {
		return fmt.Sprintf("%s: %s (%s)", d.UUID, d.Reason, d.Field)
	}
	return fmt.Sprintf("%s: %s %q (%s)", d.UUID, d.Reason, d.Base, d.Field)
}
