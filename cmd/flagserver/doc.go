// Flagserver serves the request details page and the flag pages. Flags
// requested with the "-r2" suffix are fetched once from upstream and kept in
// the configured object store (see the cache section of the configuration),
// then displayed from the asset base URL.
package main // import "github.com/nicolagi/secureflag/cmd/flagserver"
