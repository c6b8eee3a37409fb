// Package store defines the entity store contract the sync engine
// consumes, and provides three implementations:
//
//   - Memory: map-backed, for tests and as the reference semantics
//   - Vault: a directory of markdown files with YAML frontmatter
//   - SQLite: a contacts table, for hosts that keep documents in a db
//
// The engine treats WriteText as atomic; Vault guarantees this with a
// temp-file rename, SQLite with a transaction, Memory trivially.
//
// The frontmatter codec also lives here: it embeds the flat key/value
// field map into document text. The engine itself never parses YAML;
// it sees only the flat map and the free-text body.
package store
