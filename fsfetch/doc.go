// Package fsfetch provides a preload.Retriever that reads scripts from an fs.FS
// (a directory via os.DirFS, or an embed.FS). It is not registered by default;
// bind it to a protocol such as "file" or "embed" explicitly.
package fsfetch
