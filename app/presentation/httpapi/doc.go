// Package httpapi exposes the shelf coordinator and the preferences as a JSON API on echo.
//
// Requests are served one at a time: the coordinator keeps a search term and reads
// and writes the whole collection per mutation, so handlers hold a mutex around each call.
// The search term is not kept between requests: every view in a response is filtered by the
// q query parameter of that request, and unfiltered without it.
package httpapi
