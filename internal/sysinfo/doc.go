// Package sysinfo captures a snapshot of the local environment at login
// time: host details and an inventory of Go source files under a root
// directory. The snapshot is stored in session records and mirrored into
// the event log, so every value is a single sanitised line.
package sysinfo
