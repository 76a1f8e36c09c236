package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/withdrawal-simulator/internal/domain"
)

// ErrInvalidInput marks simulation inputs that the engines refuse to process.
var ErrInvalidInput = errors.New("invalid simulation input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateRequest checks the preconditions of Simulate.
func ValidateRequest(req domain.SimulationRequest) error {
	if req.StartYear > req.EndYear {
		return invalidInput("start year %d is after end year %d", req.StartYear, req.EndYear)
	}
	if _, ok := domain.WindowSpan(req.StartYear, req.EndYear); !ok {
		return invalidInput("window %d-%d is longer than %d years", req.StartYear, req.EndYear, domain.MaxWindowYears)
	}
	if req.StartCapital.IsNegative() {
		return invalidInput("start capital cannot be negative (got %s)", req.StartCapital)
	}
	if req.Withdrawal.Amount.IsNegative() {
		return invalidInput("withdrawal amount cannot be negative (got %s)", req.Withdrawal.Amount)
	}
	if len(req.Allocation) == 0 {
		return invalidInput("allocation is empty")
	}
	for _, class := range req.Allocation.Classes() {
		if w := req.Allocation[class]; w.IsNegative() {
			return invalidInput("weight for %s cannot be negative (got %s)", class, w)
		}
	}
	if req.Shock != nil && req.Shock.YearIndex < 0 {
		return invalidInput("shock year index cannot be negative (got %d)", req.Shock.YearIndex)
	}
	return nil
}
