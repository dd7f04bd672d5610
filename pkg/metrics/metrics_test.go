package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if OrdersCreatedTotal == nil {
		t.Error("OrdersCreatedTotal未初始化")
	}
	if StockReservationsTotal == nil {
		t.Error("StockReservationsTotal未初始化")
	}
	if NotificationsSentTotal == nil {
		t.Error("NotificationsSentTotal未初始化")
	}
	if SagaExecutionsTotal == nil {
		t.Error("SagaExecutionsTotal未初始化")
	}

	// 重复调用不应panic（promauto重复注册会panic，靠initialized标志保护）
	InitMetrics()
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, OrdersCreatedTotal)

	OrdersCreatedTotal.Inc()
	OrdersCreatedTotal.Inc()
	OrdersCreatedTotal.Inc()

	value := getCounterValue(t, OrdersCreatedTotal)
	if value != before+3 {
		t.Errorf("Counter值错误: expected=%f, got=%f", before+3, value)
	}
}

// TestCounterVec 测试带标签的库存预留计数
func TestCounterVec(t *testing.T) {
	InitMetrics()

	IncCounterVec(StockReservationsTotal, map[string]string{"result": "success"})
	IncCounterVec(StockReservationsTotal, map[string]string{"result": "shortage"})
	IncCounterVec(StockReservationsTotal, map[string]string{"result": "success"})

	value := getCounterVecValue(t, StockReservationsTotal, map[string]string{"result": "success"})
	if value != 2 {
		t.Errorf("CounterVec值错误: expected=2, got=%f", value)
	}
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()

	OrdersInProgress.Set(0)

	OrdersInProgress.Inc()
	OrdersInProgress.Inc()
	if v := getGaugeValue(t, OrdersInProgress); v != 2 {
		t.Errorf("Gauge递增后值错误: expected=2, got=%f", v)
	}

	OrdersInProgress.Dec()
	if v := getGaugeValue(t, OrdersInProgress); v != 1 {
		t.Errorf("Gauge递减后值错误: expected=1, got=%f", v)
	}
}

// TestGaugeVec 测试熔断器状态指标
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "smtp-gateway"}, 0) // CLOSED
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "sms-gateway"}, 1)  // OPEN

	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "smtp-gateway"}); v != 0 {
		t.Errorf("GaugeVec值错误: expected=0, got=%f", v)
	}

	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "sms-gateway"}); v != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", v)
	}
}

// TestHistogram 测试Histogram指标
func TestHistogram(t *testing.T) {
	InitMetrics()

	samples := []float64{0.05, 0.1, 0.5, 1.0, 5.0}
	for _, s := range samples {
		OrderCreationDuration.Observe(s)
	}

	count := getHistogramCount(t, OrderCreationDuration)
	if count < uint64(len(samples)) {
		t.Errorf("Histogram观测次数错误: expected>=%d, got=%d", len(samples), count)
	}
}

// TestHistogramVec 测试HistogramVec指标
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "GET", "path": "/api/orders"}, 0.05)
	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "GET", "path": "/api/orders"}, 0.1)
	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "POST", "path": "/api/orders"}, 0.2)

	labels := map[string]string{"method": "GET", "path": "/api/orders"}
	count := getHistogramVecCount(t, HTTPRequestDuration, labels)
	if count != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", count)
	}
}

// 辅助函数：获取Counter值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	counter := counterVec.With(labels)
	if err := counter.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	gauge := gaugeVec.With(labels)
	if err := gauge.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取Histogram观测次数
func getHistogramCount(t *testing.T, histogram prometheus.Histogram) uint64 {
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		t.Fatalf("读取Histogram值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
