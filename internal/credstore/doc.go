// Package credstore persists user credentials as a single JSON document.
//
// The document maps each username to its salt, password hash and optional
// profile fields. Hashing is delegated to the auth package; plaintext
// passwords never touch the document except in one legacy form: old
// documents may carry a plaintext "password" field, which is re-hashed
// and discarded the first time the document is loaded.
//
// Every mutation rewrites the whole document. Concurrent writers follow
// last-writer-wins; the store is not a multi-process database and does
// not try to be one.
package credstore
