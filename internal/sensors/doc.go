// Package sensors exposes the vital-sign measurement capability: a Reader
// interface with a sysfs-backed device implementation (DS18B20 over
// 1-wire, pulse via a bpm attribute file) and a simulated one. A sensor
// that cannot produce a value returns ErrUnavailable, which every caller
// treats as "no measurement" rather than a failure.
package sensors
