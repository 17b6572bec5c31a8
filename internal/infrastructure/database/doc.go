// Package database opens and migrates the SQLite show file.
//
// The show file holds everything a venue builds up: fixture patch,
// scenes, cues, cue lists. It is a single-writer database opened in
// WAL mode so API reads keep flowing while playback writes.
//
// Open creates the file (0600, parent directories 0750) and verifies
// it with a ping; Migrate brings the schema up to date from the
// embedded migration files:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive-only. A new column is NULLABLE or carries a
// DEFAULT, and nothing is dropped or renamed, so an older binary can
// still open a newer show file after a botched upgrade is rolled back.
// Every migration ships as an .up.sql / .down.sql pair.
package database
