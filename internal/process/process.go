// Package process controls the lifetime of external tool subprocesses.
package process

import "time"

// waitDelay bounds how long Wait keeps draining stdout/stderr pipes after
// the process has been killed. A grandchild holding the pipe open would
// otherwise block Wait forever.
const waitDelay = 2 * time.Second
