// Package submit renders HTCondor submit descriptions for a balanced run.
//
// One job is queued per line of the group index file; each job receives its
// group reference as $(BATCH) and requests the per-node resources from the
// resource plan.
package submit
