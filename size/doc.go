// Package size normalizes reported download sizes to a canonical unit.
//
// Sources report sizes as plain numbers, as strings with a GB/MB/KB suffix, or
// not at all. Everything is converted to megabytes (binary factors, 1 GB =
// 1024 MB) before any balancing arithmetic happens.
package size
