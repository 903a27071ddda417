/*
Package ports defines the driven ports (interfaces) for the SIR simulator.

These interfaces decouple the simulation core from external implementations,
allowing it to work with various random sources, storage backends and
front-ends (CLI, HTTP, MCP).

# Key Interfaces

  - RandomSource: Supplies uniform draws in [0, 1) for infection and recovery trials.
  - RunStore: Responsible for persisting and loading completed runs.
  - Simulator: Runs a simulation end to end; consumed by the HTTP and MCP adapters.
*/
package ports
