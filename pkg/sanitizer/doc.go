// Package sanitizer provides input normalization functions for booking data.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings rather than errors.
//
// Normalization includes:
//   - Identifiers: Trim, lowercase, keep letters/digits/hyphens/underscores
//   - Labels: Collapse whitespace, trim, lowercase
//   - Time zones: Trim and validate the IANA name character set
package sanitizer
