// Package normalisers extracts searchable text from imported files.
// Each normaliser knows how to read a specific family of MIME types;
// the Registry picks the highest-priority normaliser for a file and falls
// back to lower priorities when a payload turns out not to match.
package normalisers
