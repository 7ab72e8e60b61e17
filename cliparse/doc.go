// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string (default: a local SQLite file)
  - DatabaseType: "sqlite" (default) or "postgres"
  - JWTSecret: HS256 secret shared with the identity provider (required)
  - SendBuffer: Messages buffered per live connection (default: 16)
  - MintToken: When set, main prints a token for this user ID and exits

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-jwt-secret   JWT signing secret
	-send-buffer  Live send buffer size
	-mint         Mint a development token

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	JWT_SECRET       → -jwt-secret
	LIVE_SEND_BUFFER → -send-buffer
	MINT_TOKEN       → -mint

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing, if one exists.

# Validation

ParseFlags returns an error if:

  - JWT_SECRET is missing
  - DATABASE_TYPE is postgres and no URL is given
  - PORT or LIVE_SEND_BUFFER is not a number, or the buffer is below 1
*/
package cliparse
