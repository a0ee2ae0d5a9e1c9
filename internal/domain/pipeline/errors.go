package pipeline

import "errors"

// Failure taxonomy for step execution. Steps wrap these sentinels so callers
// can classify a failure without parsing messages.
var (
	// ErrFetchFailed indicates a clone or checkout did not complete.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrBuildFailed indicates a configure/compile/install invocation
	// returned a nonzero status or could not be started.
	ErrBuildFailed = errors.New("build failed")
	// ErrPostcondition indicates every command reported success but the
	// step's target path still does not exist.
	ErrPostcondition = errors.New("target missing after build")
)

// Errors for graph construction and descriptor validation.
var (
	ErrDuplicateStep     = errors.New("step with this ID already exists")
	ErrCyclicDependency  = errors.New("cyclic dependency detected")
	ErrMissingDep        = errors.New("step depends on nonexistent step")
	ErrForwardDependency = errors.New("step depends on a later step")
)
