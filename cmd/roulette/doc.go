// Command roulette runs the movie roulette service and its maintenance tools.
//
// "roulette serve" starts the HTTP API with background seeding and refresh.
// The remaining commands work directly against the record store: import and
// refresh the catalog, pick a random movie, list genres, show stats, and clear
// the store. Every listing command accepts --json.
package main
