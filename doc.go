/*
Package sirsim is a discrete-time stochastic SIR (Susceptible-Infected-Recovered)
epidemic simulator over a one-dimensional population.

Individuals sit on an index line 0..N-1. Each simulated day every infected
individual first gets one chance to recover, and then every individual still
infected gets one chance to infect each susceptible neighbour within the
contact range. A run starts with individual 0 infected and stops on the first
day nobody is infected.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/sirsim"
		"github.com/aretw0/sirsim/pkg/report"
	)

	func main() {
		sim := sirsim.New(sirsim.WithSeed(42))

		trace, err := sim.Run(context.Background(), 100, 2, 0.2, 0.05)
		if err != nil {
			log.Fatal(err)
		}

		report.WriteTable(os.Stdout, trace)
		fmt.Println("days:", trace.Days())
	}

A run with RecoverProbability 0 may never terminate. Set Params.MaxDays (via
Simulate) to bound it; the partial run is then returned together with
domain.ErrDidNotConverge.
*/
package sirsim
