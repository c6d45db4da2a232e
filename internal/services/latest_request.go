package services

import "context"

// requestToken travels with one upstream request. Its result may only be
// applied while the token is still the latest one of its slot.
type requestToken struct {
	ctx context.Context
	gen uint64
}

// latestRequest is a per-kind slot holding the one live request. Starting a
// request cancels the one before it. Callers guard it with their own mutex.
type latestRequest struct {
	gen    uint64
	cancel context.CancelFunc
}

func (l *latestRequest) begin(parent context.Context) requestToken {
	l.invalidate()
	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	return requestToken{ctx: ctx, gen: l.gen}
}

// invalidate cancels the live request, if any, and makes every issued token stale.
func (l *latestRequest) invalidate() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

func (l *latestRequest) isCurrent(t requestToken) bool {
	return t.gen == l.gen
}

// finish releases the context of a request that settled while still current.
func (l *latestRequest) finish(t requestToken) {
	if l.isCurrent(t) && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
