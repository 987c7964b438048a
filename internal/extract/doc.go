// Package extract turns uploaded files into the plain text the planning
// pipeline works on. Only plain-text uploads are supported; richer
// formats would slot in as additional Extractor implementations.
package extract
