// Package audit records security-relevant events.
//
// Every entry is written twice: a structured row in the audit_log table
// and one JSON object per line in a shadow event file. The shadow append
// is crash-consistent: sanitise, lock the whole file, write, flush, sync,
// unlock. A successfully returning append is durable and line-terminated.
//
// Recording never fails the operation being audited. Write failures fall
// back to a minimal marker entry; if even that fails, the event is
// dropped and the failure logged.
//
// The package also carries the batch utilities for historical log files:
// a migrator that converts mixed-format logs to JSON lines and a
// normaliser that cleans string fields in already-converted files.
package audit
