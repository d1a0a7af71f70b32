// Command traffic-sweep runs a built-in layout over a grid of generation and
// parking probabilities and ranks the runs by throughput.
package main

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"mad-traffic/internal/traffic"
)

type paramSet struct {
	gen   float64
	entry float64
	exit  float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("gen=%.2f entry=%.2f exit=%.2f", p.gen, p.entry, p.exit)
}

type sweepResult struct {
	params        paramSet
	exited        int
	generated     int
	backpressured int
	absorbed      int
	emitted       int
	vehiclePeak   int
	parkedPeak    int
	err           error
}

func main() {
	layout := flag.String("layout", "junction", "built-in street layout")
	steps := flag.Int("steps", 2880, "ticks to simulate per parameter set")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seed := flag.Int64("seed", 1337, "random seed shared by every run")
	top := flag.Int("top", 5, "number of results to print")
	flag.Parse()

	log := logrus.WithField("cmd", "traffic-sweep")

	base := traffic.DefaultConfig()
	base.Seed = *seed
	base.Layout = *layout

	genOptions := []float64{0.1, 0.2, 0.35, 0.5, 0.7}
	entryOptions := []float64{0.1, 0.3, 0.6}
	exitOptions := []float64{0.05, 0.2, 0.4}

	var sets []paramSet
	for _, gen := range genOptions {
		for _, entry := range entryOptions {
			for _, exit := range exitOptions {
				sets = append(sets, paramSet{gen: gen, entry: entry, exit: exit})
			}
		}
	}

	log.WithFields(logrus.Fields{"sets": len(sets), "workers": *workers, "steps": *steps, "layout": *layout}).Info("sweep starting")

	jobs := make(chan paramSet)
	results := make(chan sweepResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runSet(base, params, *steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []sweepResult
	for res := range results {
		if res.err != nil {
			log.WithError(res.err).WithField("params", res.params.String()).Error("run failed")
			continue
		}
		all = append(all, res)
	}
	if len(all) == 0 {
		log.Fatal("no successful runs")
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].exited != all[j].exited {
			return all[i].exited > all[j].exited
		}
		return all[i].backpressured < all[j].backpressured
	})
	elapsed := time.Since(start)

	fmt.Printf("\nTop %d results (elapsed %s):\n", *top, elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		printResult(i+1, all[i])
	}

	congested := lo.MaxBy(all, func(a, b sweepResult) bool { return a.backpressured > b.backpressured })
	fmt.Printf("\nMost congested: ")
	printResult(0, congested)
}

func runSet(base traffic.Config, params paramSet, steps int) sweepResult {
	cfg := base
	cfg.GenProbability = params.gen
	cfg.DefaultEntryProb = params.entry
	cfg.DefaultExitProb = params.exit

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	world, err := traffic.BuildLayout(cfg.Layout, cfg, traffic.WithLogger(logrus.NewEntry(quiet)))
	if err != nil {
		return sweepResult{params: params, err: err}
	}
	scaleParkings(world, params)

	res := sweepResult{params: params}
	for step := 0; step < steps; step++ {
		world.Step()
		st := world.Stats()
		if st.Vehicles > res.vehiclePeak {
			res.vehiclePeak = st.Vehicles
		}
		if st.Parked > res.parkedPeak {
			res.parkedPeak = st.Parked
		}
	}
	total := world.Stats().Total
	res.exited = total.Exited
	res.generated = total.Generated
	res.backpressured = total.Backpressured
	res.absorbed = total.Absorbed
	res.emitted = total.Emitted
	return res
}

// scaleParkings replaces every parking profile with a flat default so the
// swept entry and exit probabilities apply at every hour.
func scaleParkings(world *traffic.World, params paramSet) {
	snap := world.Snapshot()
	for i := range snap.Parkings {
		snap.Parkings[i].Entry = traffic.NewProfile(params.entry)
		snap.Parkings[i].Exit = traffic.NewProfile(params.exit)
	}
	if err := world.ApplySnapshot(snap); err != nil {
		logrus.WithError(err).Warn("keeping layout parking profiles")
	}
}

func printResult(rank int, res sweepResult) {
	if rank > 0 {
		fmt.Printf("%2d) ", rank)
	}
	fmt.Printf("exited=%d generated=%d blocked=%d absorbed=%d emitted=%d peakVehicles=%d peakParked=%d params=%s\n",
		res.exited, res.generated, res.backpressured, res.absorbed, res.emitted, res.vehiclePeak, res.parkedPeak, res.params)
}
