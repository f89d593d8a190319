// Package builder provides reusable "functional-options"-style building
// blocks for constructing core.Graph fixtures: deterministic topology
// constructors (Cycle, Path, Complete, Star, RingOfCliques,
// RandomSparse) plus the ID-scheme, weight-function, and RNG
// configuration they share.
//
// The package offers the following key components:
//
//   - Configuration primitives:
//     – BuilderOption:     a function that mutates builderConfig before use.
//     – builderConfig:     holds RNG, ID-scheme, weight function, etc.
//   - Vertex-ID schemes (IDFn implementations):
//     – DefaultIDFn:       decimal strings ("0","1",…), what core.FromEdgeList produces.
//     – SymbolNumberIDFn:  prefix + decimal index ("v0","v1",…), for readable test fixtures.
//   - Edge-weight distributions (WeightFn implementations):
//     – DefaultWeightFn:   constant weight DefaultEdgeWeight.
//     – ConstantWeightFn:  fixed user-provided value.
//     – UniformWeightFn:   uniform ∼U[min,max].
//   - Validation helpers:
//     – validateMin:       ensure integer ≥ minimum.
//     – validateProbability: ensure p ∈ [0.0,1.0].
//   - Shared constants:
//     – MinCycleNodes, MinPathNodes.
//     – DefaultEdgeWeight, MinProbability, MaxProbability.
//     – MethodCycle, MethodPath, MethodComplete, MethodRandomSparse tokens
//       for builderErrorf context (Star and RingOfCliques carry their own
//       unexported method/min-size constants alongside their constructors).
//
// Guarantees:
//
//   - No silent duplication: re-running the same builder on g does not add
//     duplicate edges; on a graph without multi-edges the repeated AddEdge
//     fails and the constructor returns that error.
//   - Fast-fail on invalid option parameters via panics in option-constructors.
//   - Structured runtime errors (builderErrorf) for invalid build parameters,
//     wrapping context tokens for easy filtering.
//   - Documented algorithmic complexity (O(n), O(n²), O(V+E), etc.) per constructor.
//   - Fully testable: IDFn, WeightFn, BuilderOption, and constructor branches
//     are covered by unit tests alongside each implementation file.
//
// See individual function documentation for detailed contracts, panic conditions,
// parameter descriptions, and performance notes.
package builder
