// Command blobserver serves a storage.Store over HTTP using the protocol of
// package blobserver, so that flagserver instances configured with cache type
// "dino" can share one cache of flag images.
//
// The backing store is a directory on the host filesystem, or a boltdb
// database if the configuration says so. Because every response is marked
// immutable, the server can also sit directly behind a CDN as the origin of
// the flag images.
package main // import "github.com/nicolagi/secureflag/cmd/blobserver"
