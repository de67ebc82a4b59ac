package testing

import "github.com/William-Gardner-Biotech/SRA-Dispatch/types"

// SampleItems returns a small run list mixing the size formats seen in
// archive metadata: plain megabytes, unit-suffixed strings, a missing size
// and a malformed one.
func SampleItems() []types.Item {
	return []types.Item{
		{ID: "SRR1000001", RawSize: "2GB"},
		{ID: "SRR1000002", RawSize: 512},
		{ID: "SRR1000003", RawSize: "750MB"},
		{ID: "SRR1000004", RawSize: 1536.5},
		{ID: "SRR1000005", RawSize: "40960KB"},
		{ID: "SRR1000006", RawSize: nil},
		{ID: "SRR1000007", RawSize: "about 2 gigs"},
		{ID: "SRR1000008", RawSize: "128"},
	}
}
