// Package codec compresses replay bytes with zstd before they reach the blob
// store. Blobs are named with Extension so the store can tell them apart from
// unrelated objects in the same bucket.
package codec
