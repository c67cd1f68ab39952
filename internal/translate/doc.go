// Package translate performs the English-first translation fan-out over a
// single-operation text-rewrite collaborator.
package translate
