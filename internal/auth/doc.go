// Package auth provides authentication primitives for the login core.
//
// It implements a 4-tier role model (viewer → moderator → admin →
// super_admin) with:
//   - PBKDF2-HMAC-SHA256 password derivation with per-credential salts,
//     stored hex-encoded (the on-disk credential format)
//   - Static role-permission mapping (compile-time, no database lookup)
//   - Durable role grants with a first-admin bootstrap rule: the first
//     username ever to request super_admin claims it permanently; all
//     later logins are bounded by the recorded role
//
// Roles are strictly ranked. A recorded role allows login at any equal
// or lower rank; escalation above the recorded role is always refused.
package auth
