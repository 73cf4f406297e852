// Package prunetable builds, persists and queries pattern-database pruning
// tables for twisty-puzzle search.
//
// A puzzle is split into independent piece groups. For every group the
// builders label each configuration reachable from solved with its
// breadth-first distance, separately for the permutation and the
// orientation of the group's pieces. Small domains are stored densely,
// indexed by rank; domains above the complete ceiling are stored in a
// capacity-bounded map keyed by packed vectors, which keeps only whole BFS
// layers. The oracle combines the per-group distances into an admissible
// max-heuristic bound.
//
// # Basic Usage
//
// Loading tables next to a definition file, building them when the cache is
// missing or stale:
//
//	ts, err := prunetable.Load(ctx, "3x3.def", puzzle,
//	    prunetable.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range ts.Degraded() {
//	    logger.Warn().Err(w).Msg("weak table")
//	}
//
// Pruning during a depth-first search:
//
//	o := prunetable.NewOracle(ts) // one per search goroutine
//	if o.Prune(state, remaining) {
//	    return
//	}
//
// # Package Structure
//
//   - Public API: store.go (Load), build.go (Build), prune.go (Oracle)
//   - Configuration: options.go (Option, With* functions)
//   - Builders: complete.go (dense BFS), partial.go (capped BFS)
//   - Serialization: format.go (cache layout), table_writer.go, table_reader.go
//   - Collaborators: primitives.go, backed by internal/combin, internal/keypack, internal/moves
//   - Platform: cachefile_*.go (block reservation and paging hints per OS)
package prunetable
