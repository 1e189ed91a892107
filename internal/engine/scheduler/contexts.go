package scheduler

import "go.trai.ch/buildsched/internal/core/domain"

// pushContextsToParents is the post-build pass described in spec §4.9/§9.5:
// for every (transform, context) pairing recorded during the build, walk
// upstream through the input graph (via outputToXform) and tag every
// transitive producer with the same context.
func (s *Scheduler) pushContextsToParents() {
	type seed struct {
		x   *domain.BuildTransform
		ctx string
	}

	var seeds []seed
	for x, set := range s.transformCtxs {
		for c := range set {
			seeds = append(seeds, seed{x: x, ctx: c})
		}
	}

	for _, sd := range seeds {
		s.propagateContextUpstream(sd.x, sd.ctx, make(map[*domain.BuildTransform]bool))
	}
}

// propagateContextUpstream is an iterative-in-spirit DFS (implemented
// recursively; the graph's depth is bounded by the transform DAG) that
// tags x and every upstream producer of x's inputs with ctx.
func (s *Scheduler) propagateContextUpstream(x *domain.BuildTransform, ctx string, visited map[*domain.BuildTransform]bool) {
	if visited[x] {
		return
	}
	visited[x] = true
	s.mergeContexts(x, []string{ctx})

	for _, in := range x.Inputs() {
		producer, ok := s.outputToXform[in.Path.Prefixed()]
		if !ok {
			continue
		}
		s.propagateContextUpstream(producer, ctx, visited)
	}
}
