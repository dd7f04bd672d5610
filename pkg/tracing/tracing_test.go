package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// initTestTracer 初始化测试Tracer
//
// 本地没有Collector时Span无法导出，shutdown会报错，
// 但Span的创建和上下文传播不依赖Collector，仍可验证。
func initTestTracer(t *testing.T) {
	t.Helper()

	shutdown, err := InitTracer("smartstore-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	t.Cleanup(func() {
		if err := shutdown(context.Background()); err != nil {
			t.Logf("关闭Tracer: %v", err)
		}
	})
}

// TestInitTracer 测试Tracer初始化
func TestInitTracer(t *testing.T) {
	initTestTracer(t)

	// 验证全局TracerProvider已设置
	tracer := otel.Tracer("smartstore-test")
	if tracer == nil {
		t.Error("全局TracerProvider未设置")
	}
}

// TestStartSpan 测试Span创建
func TestStartSpan(t *testing.T) {
	initTestTracer(t)

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, span := StartSpan(ctx, "smartstore-test", "CreateOrder")
		defer span.End()

		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}

		// 从Context也能取到同一个TraceID
		if got := ExtractTraceID(ctx); got != traceID {
			t.Errorf("ExtractTraceID不匹配: expected=%s, got=%s", traceID, got)
		}
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, rootSpan := StartSpan(ctx, "smartstore-test", "CreateOrder")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		_, childSpan := StartSpan(ctx, "smartstore-test", "ReserveStock")
		defer childSpan.End()

		// 子Span继承根Span的TraceID
		childTraceID := childSpan.SpanContext().TraceID().String()
		if childTraceID != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s", rootTraceID, childTraceID)
		}

		// 子Span有自己的SpanID
		childSpanID := childSpan.SpanContext().SpanID().String()
		if childSpanID == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}
	})
}

// TestSpanAttributes 测试Span属性和状态设置
func TestSpanAttributes(t *testing.T) {
	initTestTracer(t)

	ctx := context.Background()
	_, span := StartSpan(ctx, "smartstore-test", "CreateOrder")
	defer span.End()

	// 添加业务属性（在Jaeger UI中可筛选）
	span.SetAttributes(
		attribute.String("order_no", "ORD20260829120000123456"),
		attribute.Int("item_count", 3),
		attribute.Bool("is_admin", false),
		attribute.Float64("total_price", 256.78),
	)

	span.SetStatus(codes.Ok, "订单创建成功")
}

// TestExtractTraceID_NoSpan 测试无Span的Context
func TestExtractTraceID_NoSpan(t *testing.T) {
	ctx := context.Background()

	if got := ExtractTraceID(ctx); got != "" {
		t.Errorf("无Span的Context应返回空串, 实际: %s", got)
	}
	if got := ExtractSpanID(ctx); got != "" {
		t.Errorf("无Span的Context应返回空串, 实际: %s", got)
	}
}
