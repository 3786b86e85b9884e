// Package registry holds the tools and resources a provider exposes.
//
// A Registry pairs an ordered list of descriptors with a handler per
// descriptor. Providers build one at initialization time with Register and
// RegisterResource, then hand it to the dispatch server, which freezes it.
// A frozen registry is read-only and safe for concurrent use without locking.
package registry
