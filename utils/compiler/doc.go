// Package compiler implements the recursive elaboration engine: given a
// root YAML workflow document, it walks its steps depth-first, compiling
// every sub-workflow reference before its parent, and returns a single
// elaborated CWL v1.0 workflow document, a companion inputs file, and a
// visualization graph.
package compiler
