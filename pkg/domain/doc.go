/*
Package domain contains the core domain models for the NBS-TP soil-carbon
simulator.

It defines the fundamental entities of a compartmental decay run, such as the
carbon pools, the monthly input series, and the ensemble outputs. This package
is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - PoolState: The five carbon compartments (DPM, RPM, BIO, HUM, IOM).
  - ClimateSeries: Monthly temperature, rainfall, evaporation and ground cover.
  - Parameters: Site attributes (clay, DPM/RPM ratio) plus the decay constants.
  - Trajectory: The month-by-month pool states produced by one integration.
  - Summary: Per-month ensemble statistics (mean and spread of SOC and delta SOC).
  - RunSummary: The persisted artifact of a completed Monte Carlo run.
*/
package domain
