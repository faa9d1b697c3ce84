// Package clock abstracts wall time behind a small interface so the
// polling loops, the debouncer and the alarm session can be exercised in
// tests with a deterministic fake instead of real sleeps.
package clock
