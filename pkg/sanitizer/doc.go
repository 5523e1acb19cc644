// Package sanitizer normalizes raw request input before it is validated and
// stored.
//
// Every function is idempotent. Values of an unexpected type are passed
// through untouched so the validator can report them.
//
// Normalization includes:
//   - Names and places: trim, collapse runs of whitespace to one space
//   - Emails: trim, lowercase
//   - Free text: trim only, inner whitespace is kept
//   - Lists: normalize each entry, drop empty entries
package sanitizer
