// Package auth provides authentication and authorisation for Jobrelay.
//
// It implements a 2-tier role model (USER, ADMIN) with:
//   - bcrypt password hashing (configurable cost, default 10)
//   - Paired JWT access/refresh tokens signed with independent secrets
//   - Single-slot rotating refresh sessions: the SHA-256 of the most recently
//     issued refresh token is stored on the user row, replaced atomically on
//     every rotation via compare-and-set, and cleared on logout
//   - Static role admission checks at the HTTP guard (no database lookup)
//
// Refresh tokens are single-use: a presented token only rotates if its hash
// still matches the stored slot, so a captured-and-reused token fails once
// the legitimate holder has rotated. All refresh failures surface identically
// so callers cannot distinguish a stale token from a revoked session.
package auth
