// Package export converts contact records to and from interchange formats.
//
// Two formats are supported:
//   - CSV with a fixed ten-column projection, used for spreadsheet exports
//   - vCard 3.0 for export and import against other contact managers
//
// The vCard parser is deliberately lenient: a property it cannot interpret
// produces a per-card warning and an unset field rather than failing the
// card, so one odd entry in a large address book does not abort an import.
package export
