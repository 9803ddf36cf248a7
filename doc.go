// Package overlaystat provides a persistent, frame-indexed cache of overlay
// alignment results. Each frame maps to a fixed-size slot in a single file so
// a record can be read or rewritten without touching the rest of the file.
// Files written by an older schema version are upgraded on open, keeping a
// byte-for-byte backup next to the original.
//
// The library is organised into several files for clarity:
//
//	options.go     – configuration struct & defaults
//	config.go      – YAML options file
//	record.go      – Record & Size value types
//	codec.go       – per-version slot layout
//	backend.go     – file & in-memory byte streams
//	mmap.go        – read-only memory-mapped stream
//	cache.go       – constructors & core fields
//	buffer.go      – pooled slot buffers
//	io.go          – Get / Set / Clear / SaveBatch
//	scan.go        – full-file iteration
//	migrate.go     – header validation & version migration
//	stats.go       – lightweight stats accessors
//	flush_close.go – flush & close helpers
package overlaystat
