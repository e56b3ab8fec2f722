// Package batch plans, shards, submits, and polls asynchronous generation
// jobs against an external service, aggregating raw results in shard order.
// A shard that ends in any terminal state other than completed aborts the
// whole run; partial output is never silently accepted.
package batch
