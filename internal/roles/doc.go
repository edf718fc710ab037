// Package roles holds the built-in role catalog and the embedded question
// bank.
//
// The catalog ships eight professional roles with focus areas and skills.
// Sessions may target any free-text role; the catalog supplies metadata and
// role-specific fallback questions for the roles it knows, and a generic
// question set for the rest. The bank is the question source whenever the
// oracle is unconfigured or unreachable.
package roles
