// Package corpus loads the static video and transcript corpus and serves it
// read-only to the search engine.
//
// # Sources
//
// The corpus comes from one of two sources:
//
//   - JSON exports: merged.json (videos with their transcripts) plus an
//     optional videos.json carrying descriptions.
//   - A SQLite database produced by importing the JSON exports once.
//
//	store, err := corpus.LoadJSON("data/merged.json", "data/videos.json")
//
//	db, err := corpus.OpenSQLite(ctx, "huberman.db")
//	err = db.Import(ctx, store, "data/")
//	store, err = db.Load(ctx)
//
// Load failures wrap types.ErrDataUnavailable so callers can start in a
// degraded mode instead of exiting.
//
// # Build Modes
//
// The default build uses the pure Go modernc.org/sqlite driver. Building
// with -tags sqlite_cgo switches to github.com/mattn/go-sqlite3.
//
// # Invariants
//
// A Store never changes after construction. Segment Index values are the
// segment's position in its video's transcript, and VideoID always names the
// owning video.
package corpus
