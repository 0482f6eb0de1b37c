// Package services implements the driving ports over the driven ports.
//
// This is the application core: the query engine (normalisation,
// compound query evaluation, context windows), the parallel corpus
// orchestrator, and the markdown exporter. Services depend only on
// domain types and port interfaces, never on concrete adapters.
package services
