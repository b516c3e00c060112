// Package cli implements the interactive terminal front end of the ChainView
// client: a small REPL over the session controller for logging in, checking
// session status, and managing two-factor auth.
//
// Every accepted command counts as user activity and is reported to the
// session controller's activity monitor.
package cli
