// Package ledger implements the ledger domain: accounts and the entries
// posted against them.
//
// The package declares its tables against the shared database metadata at
// init time, so any interface that creates tables picks up the schema.
// Entries carry a foreign key to their account; the database layer
// enforces it on every connection.
//
// All writes run through the database interface's transaction scope, so a
// failed multi-step operation (such as a transfer) leaves no partial rows.
package ledger
