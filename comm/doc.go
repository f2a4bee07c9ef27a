// Package comm models the external MPI collective layer spec.md §1 and §6
// name as a consumed, opaque primitive: non-blocking point-to-point
// send/recv plus the single bitwise-OR all-reduce is_valid needs. The code
// that communicates (partition.Redistribute and the forest package) never
// talks to a wire protocol directly — it holds a Transport and calls
// Isend/Irecv/Waitall, exactly as spec.md §6 describes; balance and
// overlap do no communication of their own.
//
// Two implementations are provided: Local, an in-process goroutine/channel
// transport for single-binary tests and the CLI demo, and a gRPC-backed
// transport (grpc.go) for an actual multi-process run.
package comm
