// Package sanitizer normalizes user-supplied text before it is validated and stored.
//
// All functions are idempotent and never fail: input that cannot be normalized
// comes back as an empty string, and callers decide whether that is an error.
//
//   - Names, titles, locations: trim and collapse inner whitespace
//   - Emails: trim and lowercase
//   - Phone numbers: E.164 (+[country][number]) via libphonenumber
//   - Amenities: lowercase, collapse whitespace, drop empties and duplicates
package sanitizer
