// Package api exposes the roulette operations over HTTP as JSON.
//
// Routes are mounted on a chi router under /api. Every request gets a request
// ID; visitors are identified by a session cookie that keys their recency list.
// Import and refresh requests are handed to the job runner and answered with
// 202 unless the caller asks to wait.
package api
