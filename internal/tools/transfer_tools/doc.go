// Package transfer_tools registers the bulk transfer MCP tools:
//
//   - export_contacts: full contact list as CSV, uploaded to storage
//   - export_contacts_vcf: full contact list as vCard 3.0, uploaded to storage
//   - import_contacts_vcf: create contacts from a vCard file, fetched
//     either from a public URL or from Tool Store storage
//
// Imports run card by card and stop at the first create failure; per-card
// parse problems degrade to warnings in the response instead.
package transfer_tools
