// Package repositories implements SQLite persistence for music preference records.
//
// Repositories are built over a [shared.DBTX] so the same code runs against a *sql.DB or inside a
// transaction opened with [shared.WithTx]. Callers decide the transaction boundary; the repository
// never commits.
//
// Key Implementations:
//   - [MusicPreferenceRepository] : CRUD by id, lookups by uid, filtered listing
//
// Uniqueness violations on uid surface as [shared.ErrDuplicateUID] and missing rows as
// [shared.ErrPreferenceNotFound], so callers can branch with errors.Is.
package repositories
