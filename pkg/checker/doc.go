// Package checker runs the validate-and-route loop over a byte source.
//
// Each iteration frames one line, extracts the sentence, compares the
// claimed checksum with the computed one and routes the sentence:
//
//   - every sentence goes to the "all" audit sink
//   - valid sentences go to the output sink (verbatim, no timestamp) and the
//     "ok" audit sink
//   - invalid sentences go to the "wrong" audit sink
//
// Lines without a sentence are dropped. Drops and truncated lines are counted
// in [Stats] and reported to the [EventHandler], if any.
//
// All sinks are flushed after every routed sentence, so at most one line is
// in flight if the process dies.
//
// # Usage
//
//	c := checker.New(src, checker.Sinks{Output: out, All: all, OK: ok, Wrong: wrong},
//	    checker.WithTimestamps(true),
//	    checker.WithLogger(logger),
//	)
//	if err := c.Run(ctx); err != nil {
//	    // source or sink failure
//	}
//
// Run returns nil when the source reaches end of stream. The checker does not
// own the sinks or the source; closing them is the caller's job.
package checker
