package nbstp_test

import (
	"context"
	"fmt"
	"log"

	nbstp "github.com/q-beau/NBS-TP"
	"github.com/q-beau/NBS-TP/pkg/domain"
)

// ExampleSimulator_Run runs a one-year bare fallow: no plant or manure
// carbon comes in, so the stock can only decay.
func ExampleSimulator_Run() {
	climate := make(domain.ClimateSeries, 12)
	for m := range climate {
		climate[m] = domain.ClimateRecord{Temperature: 9.3, Precipitation: 100}
	}

	sim, err := nbstp.New(nbstp.Baseline{InitialSOC: 41.3},
		nbstp.WithTrials(200),
		nbstp.WithSeed(42),
		nbstp.WithWorkers(2),
	)
	if err != nil {
		log.Fatal(err)
	}

	summary, err := sim.Run(context.Background(), domain.RunInput{
		Scenario:    "bare_fallow",
		Climate:     climate,
		PlantInput:  make(domain.CarbonSeries, 12),
		ManureInput: make(domain.CarbonSeries, 12),
	})
	if err != nil {
		log.Fatal(err)
	}

	first := summary.Rows[0]
	last := summary.Rows[len(summary.Rows)-1]
	fmt.Println("scenario:", summary.Scenario)
	fmt.Println("months:", len(summary.Rows)-1)
	fmt.Println("stock declined:", last.MeanSOC < first.MeanSOC)
	// Output:
	// scenario: bare_fallow
	// months: 12
	// stock declined: true
}

// ExampleNew_explicitPools skips the pedotransfer split by handing the
// simulator a measured pool distribution.
func ExampleNew_explicitPools() {
	pools := &domain.PoolState{DPM: 0.5, RPM: 8, BIO: 1, HUM: 28, IOM: 3.5}

	sim, err := nbstp.New(nbstp.Baseline{InitialPools: pools},
		nbstp.WithTrials(100),
		nbstp.WithSeed(7),
	)
	if err != nil {
		log.Fatal(err)
	}
	_ = sim

	fmt.Printf("starting stock: %.1f t C/ha\n", pools.TotalSOC())
	// Output:
	// starting stock: 41.0 t C/ha
}
