package state

import "time"

// newLocalEnv creates environment with nothing prepared yet, configuration
// and log are set up after command line is parsed.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}
