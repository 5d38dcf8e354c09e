package httpapi

import (
	"context"
	"testing"
	"time"
)

func TestSetMaxBodyBytes(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetConvertTimeout_NormalizesNegative(t *testing.T) {
	defer SetConvertTimeout(0)
	SetConvertTimeout(-time.Second)
	if convertTimeout != 0 {
		t.Fatalf("expected 0, got %v", convertTimeout)
	}
	SetConvertTimeout(3 * time.Second)
	if convertTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", convertTimeout)
	}
}

func TestJoinContexts_CancelsOnEither(t *testing.T) {
	a, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	b, cancelB := context.WithCancel(context.Background())
	ctx, cancel := joinContexts(a, b)
	defer cancel()
	cancelB()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("joined context not cancelled by second parent")
	}

	ctx2, cancel2 := joinContexts(context.Background(), context.Background())
	cancel2()
	if ctx2.Err() == nil {
		t.Fatal("cancel func did not cancel")
	}
}

func TestSetBaseContext_NilResets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	SetBaseContext(ctx)
	SetBaseContext(nil)
	if serverBaseCtx != context.Background() {
		t.Fatal("expected Background after nil")
	}
}
