// Package fileappender writes formatted entries to a file, rotating it
// by size and pruning old backups by count and age.
//
// Rotation is delegated to lumberjack. Entries are written through an
// optional write buffer which Flush and Close drain.
package fileappender
