// Package homework holds the review status catalog and the checks applied to
// payloads returned by the homework status API.
//
// Payloads are handled in their generic decoded form (map[string]any, []any)
// so shape problems surface as typed errors rather than decode failures.
package homework
