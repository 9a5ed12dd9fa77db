// Package blobserver implements an HTTP server that can be used together with
// its client, storage.RemoteStore. It serves any implementation of
// storage.Store, and doubles as the static asset host for cached flags.
//
// Valid requests are GETs, HEADs and PUTs to paths of the form "/ph.svg", that is,
// slash followed by the path-escaped key to GET or PUT. Requests with an empty
// key or with other HTTP verbs will return 400.
//
// If a key is not found, GETs return 404 with no body, which the client should
// propagate as storage.ErrNotFound. Any other error on the GET path returns 500
// and the textual error message in the response body. The happy scenario is
// that of a 200 response status code, the value as the response body, and the
// content type the value was stored with.
//
// As for PUTs, the body is the value to be stored and the Content-Type header
// its content type. The response is either 200 status code and empty body, or
// 500 status code and the error message in the body.
package blobserver
