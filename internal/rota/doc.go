// Package rota holds the pure planning engines for the weekly staffing
// roster: position slot allocation, Saturday rest resolution, day-by-day
// unit rotation, internal workstation code rotation and meal slot seating.
//
// Everything in this package is a synchronous transform over value inputs.
// No engine performs I/O, touches package-level state or mutates its
// arguments; randomized steps take an injected *rand.Rand so callers can
// reproduce a run from a seed. Persistence, HTTP and messaging live in the
// surrounding services (internal/roster and friends).
package rota
