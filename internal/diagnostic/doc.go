// Package diagnostic provides structured errors and warnings collected while
// checking descriptor graphs and schema files.
//
// Key capabilities:
//   - Structural descriptor problems (dangling references, duplicate rest elements)
//   - Unknown type references with "did you mean" suggestions
//   - A combined error value for callers that only need pass/fail
package diagnostic
