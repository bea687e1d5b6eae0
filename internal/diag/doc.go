// Package diag defines the diagnostic model shared by the lexer, parser,
// checker and the language server.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string ID, the error Class the editor groups by, a Message and a Primary
// span. Notes carry additional spans; overlap and shadowing errors use them
// for the other rules involved, and each note is published as a diagnostic
// of its own.
//
// Producers emit through Reporter (BagReporter collects into a Bag). Phases
// that fail hand their findings to callers as Errors, which implements error
// and can be recovered with errors.As at the protocol boundary.
//
// Package diag does no IO; FormatShortDiagnostics renders the single-line
// form used by the CLI and by tests.
package diag
