// Package engine contains the simulation core of "Beijing Life".
//
// ARCHITECTURAL RULE: systems never touch ambient globals. Every
// operation takes the session aggregate as an explicit argument, mutates
// it under the session's critical section, and returns a structured
// Result with effect descriptors. Presentation belongs to the caller.
package engine
