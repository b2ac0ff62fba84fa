// Package ingest turns inbound 1C price-list feeds into catalog writes.
//
// A request body is classified into a Payload variant (Detect, DetectBody), the matching
// extractor yields raw records, and the Orchestrator reconciles every record inside a single
// batch transaction, one savepoint per record. Category and brand names are mapped to ids by
// the Resolver; the Reconciler decides create-or-update per product.
package ingest
