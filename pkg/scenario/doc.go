/*
Package scenario prepares complete model inputs from raw agronomic data.

It turns crop calendars, climate tables, biomass measurements and Bolinder
allocation coefficients into the monthly series a simulation consumes:
temperature, precipitation, evapotranspiration, carbon inputs from residue
and manure, and the soil-cover sequence. A Builder assembles one
domain.RunInput per scenario, where a scenario is one point in the
warming x straw-return x rotation grid.

The package is pure computation over in-memory tables. File parsing lives
behind the Source interface so callers decide where the tables come from.
*/
package scenario
