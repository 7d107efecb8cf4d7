// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// generation gateway, the text extractor, the authenticator and the study
// session service; routing itself lives in cmd/server.
package api
