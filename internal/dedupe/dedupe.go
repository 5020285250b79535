// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent derived reads. Battle statistics are recomputed from the
// turn ledger on every request; when several callers ask for the same
// battle at once, only one aggregate query runs and the rest share its
// result.
package dedupe

import "golang.org/x/sync/singleflight"

// StatsGroup deduplicates battle-statistics computation keyed by the
// battle id (formatted as a decimal string).
var StatsGroup singleflight.Group
