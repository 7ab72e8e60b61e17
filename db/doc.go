// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks a driver by database type and pings the server:

	conn, err := db.Open(db.TypePostgres, "postgres://…")
	conn, err := db.Open(db.TypeSQLite, "file:livepoll.db?_pragma=foreign_keys(1)")

SQLite connections are capped at one open connection. SQLite needs the
foreign_keys pragma for cascades to work.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: question, owner and published flag
  - poll_option: fixed, ordered options per poll
  - vote: one row per (voter_id, poll_id)

# Relationships

	poll 1──* poll_option
	poll 1──* vote
	poll_option 1──* vote   (via (option_id, poll_id))

All foreign keys use ON DELETE CASCADE. Deleting a poll removes its
options and votes.
*/
package db
