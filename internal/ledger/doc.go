// Package ledger persists batch run history in SQLite so past runs can be
// inspected after the fact. Writers take a file lock next to the database to
// serialize concurrent lathe invocations.
package ledger
