package bootstrap

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bootstrap/gpu"
)

var (
	// ErrLayerUnavailable means a validation layer was requested but the driver does not
	// provide it.
	ErrLayerUnavailable = errors.New("validation layers requested, but not available")

	// ErrDriverRejected marks every error produced by a failing driver call.
	ErrDriverRejected = errors.New("driver rejected the call")

	// ErrNotPresent means an extension command could not be resolved. Callers treat it as a
	// missing capability rather than a failure.
	ErrNotPresent = errors.New("extension not present")

	ErrNoDevices           = errors.New("failed to find GPUs with Vulkan support")
	ErrNoSuitableDevice    = errors.New("failed to find a suitable GPU")
	ErrIncompleteSelection = errors.New("selected GPU has no graphics queue family")
)

// DriverError carries the native result of a failing driver call.
type DriverError struct {
	Op     string
	Result gpu.Result
	Cause  error
}

func (e *DriverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Result, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Result)
}

func (e *DriverError) Unwrap() error { return e.Cause }

func driverError(op string, result gpu.Result, cause error) error {
	return errors.Mark(&DriverError{Op: op, Result: result, Cause: cause}, ErrDriverRejected)
}

// ResultOf extracts the native result from an error returned by a failing driver call.
func ResultOf(err error) (gpu.Result, bool) {
	var driverErr *DriverError
	if errors.As(err, &driverErr) {
		return driverErr.Result, true
	}
	return gpu.Success, false
}
