/*
Package rothc implements the monthly compartmental decay model at the heart of
the simulator.

The package is pure computation: climate records go in, rate-modifier series
and pool trajectories come out. It has three entry points:

  - BuildForcing turns a climate series into the combined monthly rate
    modifier (temperature x moisture x ground cover).
  - SplitInitialPools distributes a measured carbon stock over the five
    compartments using pedotransfer functions.
  - Integrate advances the pools month by month under first-order decay,
    fresh inputs and the clay-controlled partition of decomposed carbon.

All functions report contract violations as domain.ErrInvalidInput and
negative or non-finite intermediate values as domain.ErrNumericAnomaly.
Nothing is ever clamped.
*/
package rothc
