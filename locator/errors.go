package locator

import "errors"

// ErrDegenerateMeasurement is returned by BuildRay when a measurement's
// direction vector has norm below epsilon. This is the only fatal condition
// in the pipeline; every other "failure" (insufficient rays, no consensus,
// singular normal equations) is reinterpreted as "no further targets" and
// never surfaced as an error.
var ErrDegenerateMeasurement = errors.New("locator: degenerate measurement (zero-norm direction)")
