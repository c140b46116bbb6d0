// Package models defines domain entities and persistence interfaces for the Sonic Circle service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs normalized from Spotify API data
//   - [ArtistSummary] : Top-artist item with genres and popularity
//   - [TrackSummary] : Top-track item with performing artist and album art
//   - [ProfileSummary] : Public profile card for an account
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Account] : A person identified by their Spotify id, owning one credential record
//   - [Connection] : A directed edge of the mutual connection graph
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
