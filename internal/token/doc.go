// Package token generates cryptographically secure random credentials such as
// password recuperation tokens.
//
// Tokens are drawn from crypto/rand with rejection sampling, so every symbol of
// the alphabet is equally likely. A failing random source is reported as an
// error and never replaced by a weaker generator.
package token
