// Package sisu fetches degree programme curricula from the Sisu study
// information API.
//
// # Data model
//
// Sisu describes a programme as a module whose rule tree references module
// groups and course unit groups. Every group has versions, each valid for a
// set of curriculum periods ("uta-lvv-2024"); an empty set means the
// version is valid for every period. [Client.Fetch] walks the rule tree,
// picks the first valid version of each group and returns a
// curriculum.Programme.
//
// # Caching
//
// Raw responses go through a cache.Cache keyed by endpoint and group id,
// scoped to the API base URL and university. Decoded responses are also
// memoized in an in-process LRU, so a course listed under several modules
// is decoded once.
//
// # Errors
//
// HTTP 404 is reported as cache.ErrNotFound and skipped for everything but
// the programme itself. Network failures, 5xx and 429 responses are
// retryable; they are retried only when Config.Retries is positive.
package sisu
