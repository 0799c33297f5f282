/*
Package ports defines the driven ports (interfaces) for the simulator.

These interfaces decouple the core logic from external implementations,
allowing runs to be archived in various storage backends without the
simulation code knowing which one is wired in.

# Key Interfaces

  - RunStore: Responsible for persisting and retrieving completed run summaries.
*/
package ports
