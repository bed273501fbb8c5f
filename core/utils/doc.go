// Package utils converts loosely typed values from platform payloads and
// archive metadata files into the typed fields the records use.
package utils
