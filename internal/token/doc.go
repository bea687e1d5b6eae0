// Package token defines lexical token kinds for ISLE sources.
// Invariants:
//   - Token.Text is the exact source text of Symbol and Int tokens.
//   - Token.Pos is the first byte of the token.
//   - Comments never appear in the token stream.
//   - Keywords are ordinary symbols; IsKeyword is only a classification.
package token
