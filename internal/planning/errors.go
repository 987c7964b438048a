package planning

import "errors"

// ErrPlanningFailed is the single error condition the planning client
// surfaces to callers. Network failures, non-2xx responses, malformed
// bodies, and schema violations all collapse into it; callers wanting
// the cause can unwrap the chain. The client never retries internally.
var ErrPlanningFailed = errors.New("planning capability failed")
