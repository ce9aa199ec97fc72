// Package services defines shared error markers and context helpers consumed by
// the importer, selector, and HTTP layers.
//
// Key responsibilities:
//   - Context helpers that stamp request, session, and job identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper so callers classify
//     failures with errors.Is instead of string matching.
package services
