// Package cli provides the interactive CygnusOne command-line client.
//
// It wires configuration, local storage, the API clients and an interactive
// REPL with two screens: a login screen (login, register) and an articles
// screen (paginated list, filters, article view, permission checks). The
// shell switches screens by observing authentication events, so a logout
// triggered anywhere lands the user back on the login screen.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
