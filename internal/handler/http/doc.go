// Package http implements the JSON API of the dashboard.
//
// It exposes the role dashboard, the synchronized collections (as a snapshot
// and as a websocket stream of sync states) and lead management. Cross-cutting
// concerns such as session authentication, request tracing, access logging,
// response compression and entity tags are handled here before requests are
// delegated to the service layer.
package http
