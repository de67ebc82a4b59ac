// Package source provides built-in item source implementations.
//
// Item sources produce the run list a Dispatcher balances.
// The package includes:
//
//   - Static: Fixed list of items
//   - Table: Delimited metadata dump with accession and size columns
//
// Custom sources can be implemented by satisfying the types.ItemSource interface.
package source
