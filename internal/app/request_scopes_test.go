package app

import (
	"context"
	"testing"
)

func TestReplaceRequestScopeCancelsPrevious(t *testing.T) {
	m := &Model{}
	first := m.replaceRequestScope(requestScopeThreadLoad)
	second := m.replaceRequestScope(requestScopeThreadLoad)
	if first.Err() == nil {
		t.Fatalf("expected superseded scope to be canceled")
	}
	if second.Err() != nil {
		t.Fatalf("expected new scope to stay active")
	}
	if !isCanceledRequestError(first.Err()) {
		t.Fatalf("expected cancellation to be recognized")
	}
}

func TestCancelAllRequestScopes(t *testing.T) {
	m := &Model{}
	load := m.replaceRequestScope(requestScopeThreadLoad)
	send := m.replaceRequestScope(requestScopeSend)
	m.cancelAllRequestScopes()
	if load.Err() != context.Canceled || send.Err() != context.Canceled {
		t.Fatalf("expected all scopes canceled")
	}
	if len(m.requestScopes) != 0 {
		t.Fatalf("expected scopes cleared, got %d", len(m.requestScopes))
	}
}
