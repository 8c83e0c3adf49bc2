// Package gitfetch provides a preload.Retriever that reads a file from a Git repository.
// Locations look like "git+https://github.com/org/repo.git//sql/init.sql": the repository
// URL, a "//" separator, then the path inside the repository. Every call performs a
// shallow in-memory clone; nothing is written to disk.
package gitfetch
