package httpapi

import (
	"context"
)

// serverBaseCtx is a process-level context that can be canceled on shutdown.
// Defaults to Background if not set.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives from req (keeping its values, e.g. the request id) and
// is also canceled when base is done. The returned cancel func must be called.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req)
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// upstreamContext joins the shutdown context and applies requestTimeout.
func upstreamContext(req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(serverBaseCtx, req)
	if requestTimeout <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, requestTimeout)
	return tctx, func() {
		tcancel()
		cancel()
	}
}
