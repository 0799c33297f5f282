/*
Package montecarlo runs perturbed ensembles of the decay model and reduces
them to per-month statistics.

A run draws every perturbed parameter set up front from a single seeded
stream, fans the trials out over a bounded worker pool, and collects results
by trial index. Because sampling is decoupled from scheduling, a fixed seed
produces bit-identical summaries for any worker count.

Any failing trial aborts the whole ensemble. A partial ensemble would bias
the statistics silently, so there is no retry and no dropping of members.
*/
package montecarlo
