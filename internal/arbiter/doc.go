// Package arbiter serializes access to the shared buzzer and
// acknowledgment indicator between the alarm scheduler and the threshold
// monitor via a single-owner token.
package arbiter
