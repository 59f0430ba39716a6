// Package benchmark compares this library's fixed-width wire codec against
// encoding/json on equivalent data, across a small scalar message, a
// scalar-heavy message, and an array-heavy message.
package benchmark

import (
	"encoding/json"
	"testing"

	lcmmsg "github.com/lcm-go/lcm/benchmark/gen/lcmmsg"
)

// ============================================================================
// Test Data Construction - LCM Types
// ============================================================================

func makeLCMSmallMessage() *lcmmsg.SmallMessage {
	return &lcmmsg.SmallMessage{
		Id:     12345,
		Name:   "test-item",
		Active: true,
	}
}

func makeLCMMetrics() *lcmmsg.Metrics {
	return &lcmmsg.Metrics{
		Count:      1000000,
		Sum:        12345678.90,
		Min:        0.001,
		Max:        99999.99,
		Avg:        12345.67,
		P50:        10000.0,
		P95:        50000.0,
		P99:        90000.0,
		TotalBytes: 1073741824,
		ErrorCount: 42,
	}
}

func makeLCMBatchRequest(size int) *lcmmsg.BatchRequest {
	items := make([]lcmmsg.SmallMessage, size)
	for i := 0; i < size; i++ {
		items[i] = lcmmsg.SmallMessage{
			Id:     int64(i),
			Name:   "batch-item",
			Active: i%2 == 0,
		}
	}
	return &lcmmsg.BatchRequest{
		RequestId:   "batch-001",
		NumItems:    int32(size),
		Items:       items,
		SubmittedAt: 1705900800,
	}
}

func encodeLCM(m interface {
	EncodedSize() int
	Encode(buf []byte, offset, maxlen int) (int, error)
}) ([]byte, error) {
	buf := make([]byte, m.EncodedSize())
	_, err := m.Encode(buf, 0, len(buf))
	return buf, err
}

// ============================================================================
// JSON Types (mirror the LCM types for a fair comparison)
// ============================================================================

type JSONSmallMessage struct {
	Id     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type JSONMetrics struct {
	Count      int64   `json:"count"`
	Sum        float64 `json:"sum"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Avg        float64 `json:"avg"`
	P50        float64 `json:"p50"`
	P95        float64 `json:"p95"`
	P99        float64 `json:"p99"`
	TotalBytes int64   `json:"total_bytes"`
	ErrorCount int64   `json:"error_count"`
}

type JSONBatchRequest struct {
	RequestId   string             `json:"request_id"`
	Items       []JSONSmallMessage `json:"items"`
	SubmittedAt int64              `json:"submitted_at"`
}

func makeJSONSmallMessage() *JSONSmallMessage {
	return &JSONSmallMessage{Id: 12345, Name: "test-item", Active: true}
}

func makeJSONMetrics() *JSONMetrics {
	return &JSONMetrics{
		Count:      1000000,
		Sum:        12345678.90,
		Min:        0.001,
		Max:        99999.99,
		Avg:        12345.67,
		P50:        10000.0,
		P95:        50000.0,
		P99:        90000.0,
		TotalBytes: 1073741824,
		ErrorCount: 42,
	}
}

func makeJSONBatchRequest(size int) *JSONBatchRequest {
	items := make([]JSONSmallMessage, size)
	for i := 0; i < size; i++ {
		items[i] = JSONSmallMessage{Id: int64(i), Name: "batch-item", Active: i%2 == 0}
	}
	return &JSONBatchRequest{RequestId: "batch-001", Items: items, SubmittedAt: 1705900800}
}

// ============================================================================
// Benchmarks - Small Message (Baseline)
// ============================================================================

func BenchmarkSmallMessage_LCM_Encode(b *testing.B) {
	msg := makeLCMSmallMessage()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = encodeLCM(msg)
	}
}

func BenchmarkSmallMessage_LCM_Decode(b *testing.B) {
	msg := makeLCMSmallMessage()
	data, _ := encodeLCM(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result lcmmsg.SmallMessage
		_, _ = result.Decode(data, 0, len(data))
	}
}

func BenchmarkSmallMessage_JSON_Encode(b *testing.B) {
	msg := makeJSONSmallMessage()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(msg)
	}
}

func BenchmarkSmallMessage_JSON_Decode(b *testing.B) {
	msg := makeJSONSmallMessage()
	data, _ := json.Marshal(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result JSONSmallMessage
		_ = json.Unmarshal(data, &result)
	}
}

// ============================================================================
// Benchmarks - Metrics (Scalar-heavy)
// ============================================================================

func BenchmarkMetrics_LCM_Encode(b *testing.B) {
	msg := makeLCMMetrics()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = encodeLCM(msg)
	}
}

func BenchmarkMetrics_LCM_Decode(b *testing.B) {
	msg := makeLCMMetrics()
	data, _ := encodeLCM(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result lcmmsg.Metrics
		_, _ = result.Decode(data, 0, len(data))
	}
}

func BenchmarkMetrics_JSON_Encode(b *testing.B) {
	msg := makeJSONMetrics()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(msg)
	}
}

func BenchmarkMetrics_JSON_Decode(b *testing.B) {
	msg := makeJSONMetrics()
	data, _ := json.Marshal(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result JSONMetrics
		_ = json.Unmarshal(data, &result)
	}
}

// ============================================================================
// Benchmarks - Batch Request (Array-heavy)
// ============================================================================

func BenchmarkBatch100_LCM_Encode(b *testing.B) {
	msg := makeLCMBatchRequest(100)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = encodeLCM(msg)
	}
}

func BenchmarkBatch100_LCM_Decode(b *testing.B) {
	msg := makeLCMBatchRequest(100)
	data, _ := encodeLCM(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result lcmmsg.BatchRequest
		_, _ = result.Decode(data, 0, len(data))
	}
}

func BenchmarkBatch100_JSON_Encode(b *testing.B) {
	msg := makeJSONBatchRequest(100)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(msg)
	}
}

func BenchmarkBatch100_JSON_Decode(b *testing.B) {
	msg := makeJSONBatchRequest(100)
	data, _ := json.Marshal(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result JSONBatchRequest
		_ = json.Unmarshal(data, &result)
	}
}

func BenchmarkBatch1000_LCM_Encode(b *testing.B) {
	msg := makeLCMBatchRequest(1000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = encodeLCM(msg)
	}
}

func BenchmarkBatch1000_LCM_Decode(b *testing.B) {
	msg := makeLCMBatchRequest(1000)
	data, _ := encodeLCM(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result lcmmsg.BatchRequest
		_, _ = result.Decode(data, 0, len(data))
	}
}

func BenchmarkBatch1000_JSON_Encode(b *testing.B) {
	msg := makeJSONBatchRequest(1000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(msg)
	}
}

func BenchmarkBatch1000_JSON_Decode(b *testing.B) {
	msg := makeJSONBatchRequest(1000)
	data, _ := json.Marshal(msg)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var result JSONBatchRequest
		_ = json.Unmarshal(data, &result)
	}
}

// ============================================================================
// Size Comparison Test
// ============================================================================

func TestEncodedSizes(t *testing.T) {
	tests := []struct {
		name string
		lcm  func() ([]byte, error)
		json func() ([]byte, error)
	}{
		{
			name: "SmallMessage",
			lcm:  func() ([]byte, error) { return encodeLCM(makeLCMSmallMessage()) },
			json: func() ([]byte, error) { return json.Marshal(makeJSONSmallMessage()) },
		},
		{
			name: "Metrics",
			lcm:  func() ([]byte, error) { return encodeLCM(makeLCMMetrics()) },
			json: func() ([]byte, error) { return json.Marshal(makeJSONMetrics()) },
		},
		{
			name: "Batch100",
			lcm:  func() ([]byte, error) { return encodeLCM(makeLCMBatchRequest(100)) },
			json: func() ([]byte, error) { return json.Marshal(makeJSONBatchRequest(100)) },
		},
		{
			name: "Batch1000",
			lcm:  func() ([]byte, error) { return encodeLCM(makeLCMBatchRequest(1000)) },
			json: func() ([]byte, error) { return json.Marshal(makeJSONBatchRequest(1000)) },
		},
	}

	t.Log("\n=== Encoded Size Comparison ===")
	t.Log("| Message       | LCM     | JSON    | JSON/LCM |")
	t.Log("|---------------|---------|---------|----------|")

	for _, tt := range tests {
		lcmData, err := tt.lcm()
		if err != nil {
			t.Errorf("%s: lcm encode failed: %v", tt.name, err)
			continue
		}
		jsonData, err := tt.json()
		if err != nil {
			t.Errorf("%s: json encode failed: %v", tt.name, err)
			continue
		}

		ratio := float64(len(jsonData)) / float64(len(lcmData))
		t.Logf("| %-13s | %7d | %7d | %7.2fx |", tt.name, len(lcmData), len(jsonData), ratio)
	}
}
