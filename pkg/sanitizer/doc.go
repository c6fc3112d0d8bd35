// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent and never fail: invalid input yields an empty
// string or is dropped from the resulting slice.
//
// Normalization includes:
//   - Strings: collapse whitespace, trim leading and trailing spaces
//   - Specializations: lowercase, spaces become underscores ("Event Coordination" becomes "event_coordination")
//   - Phone numbers: E.164 format
//   - Portfolio links: https, lowercase host, tracking parameters removed
//   - Slices: remove duplicates and empty values after normalization
package sanitizer
