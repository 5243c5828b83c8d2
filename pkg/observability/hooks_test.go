package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, "run-1", "rotate")
	p.OnStageComplete(ctx, "run-1", "rotate", 100, time.Second, nil)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/graph.json")
	h.OnResponse(ctx, "GET", "/graph.json", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("SetHTTPHooks(nil) should be ignored")
	}

	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	Pipeline().OnStageStart(context.Background(), "run-1", "load")
	Pipeline().OnStageComplete(context.Background(), "run-1", "load", 0, time.Millisecond, nil)

	if len(custom.stages) != 2 || custom.stages[0] != "start:load" || custom.stages[1] != "complete:load" {
		t.Errorf("stages = %v, want [start:load complete:load]", custom.stages)
	}
}

// Test implementations
type testPipelineHooks struct{ stages []string }

func (h *testPipelineHooks) OnStageStart(_ context.Context, _, stage string) {
	h.stages = append(h.stages, "start:"+stage)
}

func (h *testPipelineHooks) OnStageComplete(_ context.Context, _, stage string, _ int, _ time.Duration, _ error) {
	h.stages = append(h.stages, "complete:"+stage)
}

type testHTTPHooks struct {
	NoopHTTPHooks
	id int
}
