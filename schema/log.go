// This file adds an optional structured-logging hook to Schema: an opt-in
// zerolog sink invoked around hook execution, timed and branched on error
// the same way a debug middleware would wrap an operation.
package schema

import (
	"time"

	"github.com/rs/zerolog"
)

// SetLogger attaches logger to the schema. Once set, RunPre/RunPost log the
// hook kind and elapsed time. Compilation errors are not logged: NewSchema
// and the Compile* methods only return them to the caller.
func (s *Schema) SetLogger(logger zerolog.Logger) {
	s.logger = &logger
}

// logHookRun emits one structured log line per RunPre/RunPost call (not per
// registered hook function), when a
// logger has been attached. It is a no-op otherwise, so SetLogger remains
// strictly opt-in.
func (s *Schema) logHookRun(kind HookKind, phase string, start time.Time, err error) {
	if s.logger == nil {
		return
	}
	evt := s.logger.Info()
	if err != nil {
		evt = s.logger.Error().Err(err)
	}
	evt.Str("hook", string(kind)).
		Str("phase", phase).
		Dur("elapsed", time.Since(start)).
		Msg("schema hook")
}
