// Package remote defines the contract for fetching named text records from a
// remote system, plus a small registry so the CLI can pick a source by name.
//
// 🌐 Flow
//
//	CLI ──> GetSource("salesforce") ──> Source.Query(target, query)
//	                                         │
//	                                         ▼
//	                                 []Record{field: value}
//
// Sources register themselves from an init function in their own package.
package remote
