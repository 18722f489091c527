// Package models defines the music preference record and its persistence contracts.
//
// The package contains two kinds of types:
//
// 1. Persistent entities: database-backed records with validation
//   - [MusicPreference] : one user's listening preferences and favorite songs or artists
//
// 2. Plain mappings exchanged with callers
//   - [Fields] : the key/value view produced by [MusicPreference.Read] and accepted by [MusicPreference.Apply]
//
// Entities carry no storage handle. The [Repository] interface defines the CRUD operations
// a storage layer provides; see the repositories and services packages.
package models
