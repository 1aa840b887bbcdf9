// Package reorganize turns placements into a Category/SubGenre/Author
// folder tree.
//
// Build is pure: it computes target paths under a destination root, keeps
// input order, and flags (but never resolves) targets shared by two books.
// Executor applies a plan sequentially and best-effort. There is no
// cross-file transaction: when one file fails the run continues and earlier
// moves stay applied. Only successful moves update the index; copies never
// do. Collisions are resolved at apply time by an explicit CollisionPolicy.
package reorganize
