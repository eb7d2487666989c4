// Package proposal turns a completed answer map into a proposal document.
//
// Parsing here is best-effort: inputs that cannot be understood are passed
// through unchanged and nothing returns an error.
package proposal
