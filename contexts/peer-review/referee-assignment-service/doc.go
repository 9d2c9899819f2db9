// Package refereeassignment implements the referee assignment and review-request
// coordination engine inside refdesk.
//
// Layering:
// - domain: papers, reviewer assignments, review requests, violations and errors
// - application: rule evaluation, paper writes, and the review-request lifecycle
// - ports: store/index/notifier boundaries backed by a durable key-value store
// - adapters: memory, postgres and sqlite key-value backends, kv-backed repositories,
//   HTTP handler, event notifier and e-mail validation
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Accepting an invitation is a saga across the assignment index, the paper
//   repository and the request store; a failed paper write always removes the
//   index entry added earlier in the same call.
// - Paper writes are version checked; retries belong to the caller.
package refereeassignment
