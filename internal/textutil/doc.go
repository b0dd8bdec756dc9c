// Package textutil provides text normalization helpers shared across the
// pipeline: filename sanitization, output stem construction, and Unicode
// normalization of user queries.
package textutil
