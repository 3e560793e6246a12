// Package extract pulls the first complete objects of a named array out of a
// JSON document without reading the whole document.
//
// The document is fed to a Scanner a chunk at a time.  The Scanner finds the
// first occurrence of the quoted field name, the '[' after it, and then the
// boundaries of the objects in that array.  As soon as enough objects are
// complete the caller can stop reading:
//
//	{"nodes": [{"id": 1}, {"id": 2}, {"id": 3}, ...], "links": [...]}
//	           ^^^^^^^^^^^^^^^^^^^^ first 2 objects of "nodes"
//
// The Fragment of a Result, wrapped in brackets, is a JSON array of the
// objects found.  Parse checks this and splits it into objects.
//
// Boundaries are found by counting braces outside string literals, so
// objects may be nested and strings may contain any character.  The Scanner
// is not a validating parser though: it trusts the input to be JSON, and
// Parse is where invalid input is detected.  The field is located by plain
// text search, so the first occurrence of "nodes" anywhere in the document
// (even inside a string value) is taken as the key.
//
// Extractor drives a Scanner from an io.Reader with memory limits, and
// ObjectReader iterates over all the objects of an array with memory bounded
// by the largest object.
package extract
