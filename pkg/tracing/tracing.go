// Package tracing 提供基于OpenTelemetry的分布式追踪框架
//
// # 核心概念
//
// 1. **Trace（追踪）**：一个完整的请求链路
//   - 示例：顾客下单从开始到结束的全过程
//
// 2. **Span（跨度）**：一个操作单元
//   - 示例：预留某件商品的库存
//   - 包含：操作名称、开始时间、结束时间、耗时、状态
//
// 3. **SpanContext（上下文）**：跨服务传递的元数据
//   - TraceID：标识整个请求链路
//   - SpanID：标识当前操作
//   - ParentSpanID：标识父操作（构建调用树）
//
// # 追踪示例
//
//	Trace: 顾客下单（TraceID=abc123）
//	├─ Span1: HTTP处理请求
//	│  ├─ Span2: CreateOrder用例
//	│  │  ├─ Span3: 预留库存（逐件）
//	│  │  └─ Span4: 落库订单+清空购物车
//	│  └─ Span5: 广播通知
//
// # 使用示例
//
//	// 1. 初始化全局Tracer Provider
//	shutdown, err := tracing.InitTracer("smartstore-api", "localhost:4317")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(context.Background())
//
//	// 2. 在业务代码中使用
//	ctx, span := tracing.StartSpan(ctx, "smartstore-api", "CreateOrder")
//	defer span.End()
//
// # 最佳实践
//
// 1. Span命名使用操作名而非变量值：`CreateOrder`（✅） vs `CreateOrder-123`（❌）
// 2. 业务属性用SetAttributes添加：customer_id、order_no、item_count
// 3. 错误总是调用span.RecordError(err)并SetStatus
// 4. 程序退出时调用shutdown()刷新未发送的数据
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: Collector的OTLP gRPC端点（如 localhost:4317）
//
// 返回：
//   - shutdown: 关闭函数（程序退出时调用，确保数据刷新）
//
// 设计要点：
// 1. 使用OTLP协议（厂商中立，可无缝切换到Zipkin、Datadog）
// 2. 采样策略：
//   - AlwaysSample（100%采样）：适合开发/测试环境
//   - 生产环境建议使用TraceIDRatioBased（如1%采样）
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter（默认端口4317）
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性）
	// 这些属性会附加到所有Span上，便于在Jaeger UI中筛选和分组
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			// service.name是必需属性，用于在Jaeger UI中标识服务
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建Tracer Provider
	tp := sdktrace.NewTracerProvider(
		// 采样策略：AlwaysSample表示100%采样
		sdktrace.WithSampler(sdktrace.AlwaysSample()),

		// BatchSpanProcessor批量发送Span（性能优于SimpleSpanProcessor）
		sdktrace.WithBatcher(exporter),

		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider
	// 业务代码无需传递TracerProvider，直接使用otel.Tracer()获取
	otel.SetTracerProvider(tp)

	// 5. 设置全局TextMapPropagator（上下文传播器）
	// 负责在跨服务调用时传递TraceID/SpanID
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, // W3C Trace Context
			propagation.Baggage{},      // Baggage
		),
	)

	// 6. 返回关闭函数（确保所有Span被发送到Collector）
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
//
// 返回的ctx包含新Span，必须传递给下游调用，否则无法构建调用树。
//
// 示例：
//
//	func (uc *CreateOrderUseCase) Execute(ctx context.Context) error {
//	    ctx, span := tracing.StartSpan(ctx, "smartstore-api", "CreateOrder")
//	    defer span.End()
//	    ...
//	}
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
//
// 在日志中记录TraceID，便于从日志快速定位到Jaeger追踪：
//
//	traceID := tracing.ExtractTraceID(ctx)
//	log.Printf("TraceID=%s, 订单创建成功, OrderNo=%s", traceID, orderNo)
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
