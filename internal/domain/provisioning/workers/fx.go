package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides provisioning workers for fx DI
var Module = fx.Module("provisioning-workers",
	fx.Provide(NewRequestMonitor),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle registers request monitor with fx.Lifecycle
func registerLifecycle(lc fx.Lifecycle, w *RequestMonitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			return nil
		},
	})
}
