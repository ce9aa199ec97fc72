// Package daemonrun hosts the foreground daemon process: logger setup, log
// retention, pid file, store and catalog selection, and signal handling.
package daemonrun
