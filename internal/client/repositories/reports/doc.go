// Package reports provides the client-side persistence layer for problem
// reports.
//
// # Overview
//
// The package defines a Repository interface over the reports collection
// (see internal/client/models). SQLiteRepository persists data through a
// dbx.DBTX (either *sql.DB or *sql.Tx); Unavailable stands in when the
// database could not be opened.
//
// # Semantics
//
//   - Put is an upsert keyed by id: last write wins, no version check.
//   - Get returns common.ErrorNotFound for an absent id.
//   - ListByTimestamp returns every report ordered by timestamp ascending
//     (ties broken by id); callers wanting newest-first reverse it.
//   - Delete of an absent id is not an error.
//
// Typical usage
//
//	repo := reports.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, report)
//	all, _ := repo.ListByTimestamp(ctx)
//	one, _ := repo.Get(ctx, id)
//	_ = repo.Delete(ctx, id)
package reports
