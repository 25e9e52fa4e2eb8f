// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/board, domain/epic,
// domain/task, domain/comment, domain/user, domain/entitlement). This root
// package holds the sentinel errors, the rich error types the API layer maps
// to user-visible responses, and shared validation types.
package domain
