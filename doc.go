// Package cm implements a connectivity-modifying cluster refiner for
// large undirected graphs.
//
// Given an initial partition of a graph's vertices into clusters (from
// a community-detection pass), cm recursively prunes low-degree
// vertices and bisects clusters along minimum cuts until every
// surviving cluster meets a user-defined edge-connectivity
// requirement. This repairs the common failure mode of
// modularity-style clustering: internally poorly connected
// communities (barely-joined subcommunities, tree-like tails,
// pendants).
//
// Package layout:
//
//	core/       — Graph store: vertex/edge primitives, induced
//	              subgraphs, compact relabeling, modularity, I/O.
//	builder/    — Deterministic graph fixtures (cycle, path, complete,
//	              random sparse) used by tests.
//	subgraph/   — Intangible and Realized subgraph handles + hydrator.
//	cutoracle/  — Adapter over the external minimum-cut oracle.
//	clusterer/  — Adapter over the external community-detection tools.
//	requirement/— Connectivity requirement grammar and threshold eval.
//	pruner/     — Low-degree vertex peeling.
//	engine/     — The refinement driver (algorithm-G).
//	tree/       — Hierarchy tree recording every split/prune/terminal
//	              cluster.
//	cmcontext/  — Process-wide working directory and executable config.
//	stats/      — Post-hoc summary statistics over the output clusters.
//	cmd/cm/     — Command-line entry point.
package cm
