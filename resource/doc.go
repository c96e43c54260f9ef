// Package resource provides I/O throttling and bounded background
// scheduling for fsenv environments.
//
// A [Controller] owns the process-wide budgets: an I/O byte rate for
// file reads and appends, and a worker semaphore bounding concurrent
// background jobs. [Throttle] wraps any fsenv.Env so that the files it
// produces draw from those budgets, without the wrapped environment
// knowing about throttling at all:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec:   64 << 20,
//	    MaxBackgroundWorkers: 4,
//	})
//	env := resource.Throttle(fsenv.Default(), rc)
package resource
