// Package admin exposes the privileged management surface: user
// administration, audit log access and system statistics.
//
// Every operation is guarded by a session-bound permission check. The
// gate resolves the caller's role from a live admin session and refuses
// anything outside the role's permission set; refusals are audited with
// the actor when one is known. Callers never pass a role directly, only
// a session id.
package admin
