// Package engine contains the quality-scan and fragmentation core. It never
// imports app, writers, cli or pipeline; keep it domain-only.
//
// An Engine applies one read-only Policy to one record at a time and
// reports which spans survive. It keeps no state between calls, so the same
// record and policy always produce the same fragments.
package engine
