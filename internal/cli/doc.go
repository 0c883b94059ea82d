// Package cli provides the interactive nudger shell.
//
// It wires configuration, local storage, the stores and the session
// resolver, then runs a read-eval-print loop. The resolver runs in the
// background; the shell prints the landing flow whenever it changes and
// re-resolves after every identity or profile command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
