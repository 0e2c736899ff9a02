// Package api is the single access point for all HTTP calls to the lmx backend.
//
// Every request in the application funnels through [Client.Call] or
// [Client.FetchFile]: the client attaches the bearer token from its
// [TokenSource], classifies responses (JSON, non-JSON fallback, structured API
// error, transport failure), and fires the unauthorized hook on a 401 so the
// session is torn down exactly once no matter how many requests are in flight.
package api
