// Package services implements the music preference operations on top of the repositories package.
//
// # Transactions
//
// Every mutating operation of [PreferenceService] runs inside its own transaction opened with
// [shared.WithTx] and commits before returning. A failed operation rolls back and leaves storage
// untouched. Reads use the database handle directly.
//
// # Upsert and Restore
//
// [PreferenceService.Upsert] and [PreferenceService.CreateOrUpdate] are keyed by uid: an existing
// record is overwritten or patched instead of inserting a duplicate.
//
// [PreferenceService.Restore] reconciles a list of mappings by primary key. Entries whose id
// matches an existing record patch it; all others are inserted as new records. An insert that
// collides with another record's uid, or an entry that fails validation, is rolled back, logged
// and left out of the result while the remaining entries are processed.
//
// # Error Handling
//
// Services return sentinel errors from the shared package, wrapped with context:
//   - [shared.ErrPreferenceNotFound] : no record for the uid or id
//   - [shared.ErrDuplicateUID] : an insert collided with an existing uid
//   - [shared.ErrInvalidPreference] : the record failed validation
package services
