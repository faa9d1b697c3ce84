// Package daemon wires the whole device together: configuration, the
// store, real or simulated hardware, the alarm scheduler and the
// threshold monitor, plus the SIGUSR1 monitoring toggle and the
// single-instance guard.
package daemon
