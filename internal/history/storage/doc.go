// Package storage provides the pluggable key/value layer behind the query
// history. Backends keep entries in ascending key order, so keys that sort by
// time (like KSUIDs) list oldest first.
package storage
