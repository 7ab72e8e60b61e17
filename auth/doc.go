// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies the identity tokens handed out by the identity
provider.

Registration and login live outside this service. The provider signs an
HS256 JWT whose subject is the user ID; this package checks the signature
and expiry and returns that ID:

	userID, err := auth.ParseToken(token, secret)

IssueToken signs a token the same way. It backs the -mint flag for local
development and the tests:

	token, err := auth.IssueToken("alice", secret, time.Hour)

BearerToken pulls the token out of an Authorization header.
*/
package auth
