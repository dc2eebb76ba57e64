package mfdata

import "github.com/goliatone/go-mfdata/pkg/activity"

// WithActivityHooks emits data events to hooks on the default channel. Nil
// hooks are dropped; with no hooks left the option disables emission.
func WithActivityHooks(hooks activity.Hooks) Option {
	return WithActivityEmitter(activity.NewEmitter(hooks, activity.Config{Enabled: true}))
}
