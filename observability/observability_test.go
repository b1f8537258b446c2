package observability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sqlspec/sqlspec/observability"
	"github.com/sqlspec/sqlspec/statement"
)

func TestEmit_NoListenersIsNoOp(t *testing.T) {
	d := observability.New(0)
	require.NotPanics(t, func() {
		d.Emit(observability.StatementExecuteEvent{Phase: observability.PhaseStart})
	})
}

func TestEmit_DeliversToRegisteredListener(t *testing.T) {
	d := observability.New(4)
	received := make(chan any, 1)
	unregister := d.Register(observability.ListenerFunc(func(e any) {
		received <- e
	}))
	defer unregister()

	evt := observability.StatementCompileEvent{
		Event: observability.Event{
			CorrelationID: observability.NewCorrelationID(),
			Driver:        "postgres",
			OperationKind: statement.Single,
		},
		Phase: observability.PhaseHit,
	}
	d.Emit(evt)

	select {
	case got := <-received:
		compile, ok := got.(observability.StatementCompileEvent)
		require.True(t, ok)
		require.Equal(t, observability.PhaseHit, compile.Phase)
		require.Equal(t, "postgres", compile.Driver)
	case <-time.After(time.Second):
		t.Fatal("listener did not receive event")
	}
}

func TestEmit_FansOutToMultipleListeners(t *testing.T) {
	d := observability.New(4)
	a := make(chan any, 1)
	b := make(chan any, 1)
	d.Register(observability.ListenerFunc(func(e any) { a <- e }))
	d.Register(observability.ListenerFunc(func(e any) { b <- e }))

	d.Emit(observability.StatementExecuteEvent{Phase: observability.PhaseComplete})

	for _, ch := range []chan any{a, b} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("listener did not receive event")
		}
	}
}

func TestUnregister_StopsDelivery(t *testing.T) {
	d := observability.New(4)
	received := make(chan any, 2)
	unregister := d.Register(observability.ListenerFunc(func(e any) {
		received <- e
	}))
	unregister()

	d.Emit(observability.StatementExecuteEvent{Phase: observability.PhaseError})

	select {
	case <-received:
		t.Fatal("listener received event after unregister")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEmit_DropsWhenQueueFull(t *testing.T) {
	d := observability.New(1)
	block := make(chan struct{})
	first := make(chan struct{})
	d.Register(observability.ListenerFunc(func(e any) {
		close(first)
		<-block
	}))

	d.Emit(observability.StatementExecuteEvent{Phase: observability.PhaseStart})
	<-first

	require.NotPanics(t, func() {
		d.Emit(observability.StatementExecuteEvent{Phase: observability.PhaseComplete})
		d.Emit(observability.StatementExecuteEvent{Phase: observability.PhaseComplete})
	})
	close(block)
}

func TestPhase_String(t *testing.T) {
	require.Equal(t, "hit", observability.PhaseHit.String())
	require.Equal(t, "miss", observability.PhaseMiss.String())
}
