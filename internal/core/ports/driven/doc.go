// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Core services depend on these interfaces; adapters under
// internal/adapters/driven implement them. The embedding and answer
// services are optional: when nil, the affected features degrade
// gracefully instead of failing.
package driven
