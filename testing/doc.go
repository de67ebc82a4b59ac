// Package testing provides test utilities for SRA-Dispatch.
//
// Helpers here are shared by package tests and are safe to use from
// downstream code that plugs its own ItemSource or PartitionWriter into a
// Dispatcher:
//   - StartEmbeddedNATS: single in-process NATS server with JetStream
//   - JetStream: JetStream handle on an embedded server
//   - NewTestLogger: types.Logger that writes through t.Logf
//   - SampleItems: small fixed run list with mixed size formats
//
// Example usage:
//
//	import (
//	    "testing"
//	    dispatchtest "github.com/William-Gardner-Biotech/SRA-Dispatch/testing"
//	)
//
//	func TestMyWriter(t *testing.T) {
//	    js := dispatchtest.JetStream(t)
//	    w := partition.NewKV(js, "runs")
//	}
package testing
