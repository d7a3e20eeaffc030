package app

import (
	"context"
	"errors"
	"strings"
)

const (
	requestScopeThreadLoad = "thread_load"
	requestScopeSend       = "message_send"
)

type requestScope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// replaceRequestScope cancels any in-flight request under name and returns a
// fresh context for the superseding one.
func (m *Model) replaceRequestScope(name string) context.Context {
	name = strings.TrimSpace(name)
	if m == nil || name == "" {
		return context.Background()
	}
	m.cancelRequestScope(name)
	if m.requestScopes == nil {
		m.requestScopes = map[string]requestScope{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.requestScopes[name] = requestScope{ctx: ctx, cancel: cancel}
	return ctx
}

func (m *Model) cancelRequestScope(name string) {
	name = strings.TrimSpace(name)
	if m == nil || name == "" || m.requestScopes == nil {
		return
	}
	scope, ok := m.requestScopes[name]
	if !ok {
		return
	}
	if scope.cancel != nil {
		scope.cancel()
	}
	delete(m.requestScopes, name)
}

func (m *Model) cancelAllRequestScopes() {
	if m == nil {
		return
	}
	for name := range m.requestScopes {
		m.cancelRequestScope(name)
	}
}

func isCanceledRequestError(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}
