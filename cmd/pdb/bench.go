package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"runtime/metrics"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamirms/prunetable"
	"github.com/tamirms/prunetable/internal/moves"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// memSampler tracks peak heap and RSS every 10ms. runtime/metrics avoids the
// stop-the-world pause of ReadMemStats.
type memSampler struct {
	peakHeap atomic.Uint64
	peakRSS  atomic.Uint64
	done     chan struct{}
}

func startMemSampler() *memSampler {
	s := &memSampler{done: make(chan struct{})}
	samples := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
	sample := func() {
		metrics.Read(samples)
		storeMax(&s.peakHeap, samples[0].Value.Uint64())
		storeMax(&s.peakRSS, getMaxRSS())
	}
	sample()
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				sample()
			}
		}
	}()
	return s
}

func (s *memSampler) stop() (heap, rss uint64) {
	close(s.done)
	return s.peakHeap.Load(), s.peakRSS.Load()
}

func storeMax(v *atomic.Uint64, x uint64) {
	for {
		old := v.Load()
		if x <= old || v.CompareAndSwap(old, x) {
			return
		}
	}
}

type benchFlags struct {
	walks int
	depth int
	seed  uint64
}

func newBenchCmd(gf *globalFlags) *cobra.Command {
	var bf benchFlags
	cmd := &cobra.Command{
		Use:   "bench <definition>",
		Short: "Measure load time, prune throughput and peak memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bf.walks <= 0 || bf.depth < 0 {
				return fmt.Errorf("walks must be positive and depth non-negative")
			}
			log := gf.logger(cmd)

			runtime.GC()
			baseRSS := getMaxRSS()
			mem := startMemSampler()
			loadStart := time.Now()
			p, ts, err := gf.load(cmd.Context(), args[0], log)
			loadDuration := time.Since(loadStart)
			peakHeap, peakRSS := mem.stop()
			if err != nil {
				return err
			}

			log.Info().Int("walks", bf.walks).Int("depth", bf.depth).Msg("generating positions")
			rng := rand.New(rand.NewPCG(bf.seed, bf.seed^0x9E3779B97F4A7C15))
			positions := randomWalks(rng, p, bf.walks, bf.depth)

			r := runBench(ts, positions, bf.depth)
			r.load = loadDuration
			r.peakHeap = peakHeap
			r.peakRSS = peakRSS - min(baseRSS, peakRSS)
			writeBench(cmd.OutOrStdout(), r)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&bf.walks, "walks", 100_000, "number of random positions to query")
	f.IntVar(&bf.depth, "depth", 10, "moves per random walk, also the prune depth budget")
	f.Uint64Var(&bf.seed, "seed", 0x1234, "random walk seed")
	return cmd
}

// randomWalks returns n positions, each depth random moves from solved.
func randomWalks(rng *rand.Rand, p *prunetable.Puzzle, n, depth int) []prunetable.Position {
	var a moves.Applier
	out := make([]prunetable.Position, n)
	scratch := p.Solved.Clone()
	for i := range out {
		pos := p.Solved.Clone()
		for range depth {
			m := p.Moves[rng.IntN(len(p.Moves))]
			for g, ds := range p.Datasets {
				st := m.State[g]
				a.ApplyPermutation(pos[g].Permutation, st.Permutation, scratch[g].Permutation)
				a.ApplyOrientation(pos[g].Orientation, st.Orientation, st.Permutation, ds.OMod, scratch[g].Orientation)
			}
			pos, scratch = scratch, pos
		}
		out[i] = pos
	}
	return out
}

type benchResult struct {
	positions int
	queries   int
	pruned    int
	prune     time.Duration
	distance  time.Duration
	meanDist  float64
	load      time.Duration
	peakHeap  uint64
	peakRSS   uint64
}

// runBench queries every position once per depth budget from 0 to depth.
func runBench(ts *prunetable.TableSet, positions []prunetable.Position, depth int) benchResult {
	o := prunetable.NewOracle(ts)
	var r benchResult

	start := time.Now()
	for _, pos := range positions {
		for d := 0; d <= depth; d++ {
			if o.Prune(pos, d) {
				r.pruned++
			}
		}
	}
	r.prune = time.Since(start)
	r.positions = len(positions)
	r.queries = len(positions) * (depth + 1)

	var sum int
	start = time.Now()
	for _, pos := range positions {
		sum += o.Distance(pos)
	}
	r.distance = time.Since(start)
	r.meanDist = float64(sum) / float64(len(positions))
	return r
}

func writeBench(w io.Writer, r benchResult) {
	perQuery := float64(r.prune.Nanoseconds()) / float64(r.queries)
	perDist := float64(r.distance.Nanoseconds()) / float64(r.positions)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "╔═════════════════════╦════════════════╗\n")
	fmt.Fprintf(w, "║ Metric              ║ Value          ║\n")
	fmt.Fprintf(w, "╠═════════════════════╬════════════════╣\n")
	fmt.Fprintf(w, "║ Load time           ║ %6.2f sec     ║\n", r.load.Seconds())
	fmt.Fprintf(w, "║ Prune queries       ║ %10d     ║\n", r.queries)
	fmt.Fprintf(w, "║ Pruned              ║ %6.2f %%       ║\n", 100*float64(r.pruned)/float64(r.queries))
	fmt.Fprintf(w, "║ Prune latency       ║ %6.1f ns      ║\n", perQuery)
	fmt.Fprintf(w, "║ Prune throughput    ║ %6.2f M/sec   ║\n", float64(r.queries)/r.prune.Seconds()/1_000_000)
	fmt.Fprintf(w, "║ Mean heuristic      ║ %6.2f         ║\n", r.meanDist)
	fmt.Fprintf(w, "║ Distance latency    ║ %6.1f ns      ║\n", perDist)
	fmt.Fprintf(w, "║ Peak heap memory    ║ %6.1f MB      ║\n", float64(r.peakHeap)/1_000_000)
	fmt.Fprintf(w, "║ Peak RSS memory     ║ %6.1f MB      ║\n", float64(r.peakRSS)/1_000_000)
	fmt.Fprintf(w, "╚═════════════════════╩════════════════╝\n")
}
