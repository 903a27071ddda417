/*
Package domain contains the core models of the SIR simulator.

It defines the compartment enum, the per-individual population line, the
per-day aggregate counts and the run record. The package is kept pure and free
of I/O, randomness and persistence, following Hexagonal Architecture principles.

# Key Entities

  - Status: Susceptible, Infected or Recovered.
  - Population: fixed-length status line mutated in place by the engine.
  - DayCounts / Trace: immutable per-day snapshots and their ordered history.
  - Params: the four model inputs plus an optional day ceiling.
  - Run: a persisted trace with its parameters and timing.
*/
package domain
