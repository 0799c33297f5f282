/*
Package nbstp simulates soil organic carbon (SOC) under climate and crop
rotation scenarios with the RothC compartmental decay model, and quantifies
parameter uncertainty with Monte Carlo ensembles.

It was built for the Belgian Loam Belt field trials: monthly ALARO climate
projections and crop calendars go in, per-month SOC statistics come out.

# Concept

RothC tracks five carbon pools (DPM, RPM, BIO, HUM and inert IOM). Every
month, fresh plant and manure carbon is partitioned into the pools, and each
active pool decays by exp(-k*f/12), where f combines temperature, topsoil
moisture deficit and soil cover. The CO2/(BIO+HUM) split of decayed carbon
depends on clay content.

A single trajectory hides how sensitive the result is to the decomposition
constants. The simulator therefore runs an ensemble: each trial perturbs the
rate constants, the DPM/RPM ratio and the initial pools by uniform
multipliers, integrates the full horizon, and the aggregator reduces the
ensemble to per-month mean and standard deviation of SOC and of the drawdown
from the starting stock.

# Key Features

  - Deterministic ensembles: a fixed seed gives bit-identical summaries for
    any worker count, because all trials are drawn from one stream before
    the workers start.
  - Scenario preparation: crop calendars, harvest allocation, farmyard
    manure scheduling, Penman-Monteith evapotranspiration and Bolinder
    carbon inputs, assembled per warming pathway, rotation and straw-return
    policy (pkg/scenario).
  - Archive ports: completed runs persist through a small store interface
    with memory, file, Redis and SQLite adapters.
  - Library first: the CLI under cmd/nbstp is a thin shell over this
    package.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		nbstp "github.com/q-beau/NBS-TP"
		"github.com/q-beau/NBS-TP/pkg/domain"
	)

	func main() {
		sim, err := nbstp.New(nbstp.Baseline{InitialSOC: 41.3},
			nbstp.WithTrials(500),
			nbstp.WithSeed(42),
		)
		if err != nil {
			log.Fatal(err)
		}

		in := domain.RunInput{
			Scenario: "8.5_ecofood_ref_50",
			Climate:  climate, // one record per month
			PlantInput:  plant,
			ManureInput: manure,
		}

		summary, err := sim.Run(context.Background(), in)
		if err != nil {
			log.Fatal(err)
		}
		last := summary.Rows[len(summary.Rows)-1]
		fmt.Printf("SOC after %d months: %.1f +/- %.1f t C/ha\n",
			last.Month, last.MeanSOC, last.StdSOC)
	}
*/
package nbstp
