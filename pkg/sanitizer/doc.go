// Package sanitizer normalizes the identifying data collected by the booking
// wizard before it is validated and stored.
//
// All normalization functions are idempotent. Invalid input is left in a form
// the validators can reject rather than being coerced to something valid.
//
// Normalization includes:
//   - Names: trim and collapse whitespace
//   - Emails: trim and lowercase
//   - Phone numbers: E.164, Swedish numbers accepted without country prefix
//   - Personal numbers: internal whitespace removed, separators kept
package sanitizer
