// Package sanitizer normalizes the free text that reaches the webhook through the
// conversation: customer names, phone numbers, e-mail addresses and location ids.
//
// All functions are idempotent and never fail; input that cannot be normalized
// yields an empty string and the caller decides whether to keep the raw value.
package sanitizer
