package diagnostics

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMemoryReportSumIncludesChildren(t *testing.T) {
	r := MemoryReport{
		Name:       "root",
		TotalBytes: 10,
		Children: []MemoryReport{
			{Name: "a", TotalBytes: 5},
			{Name: "b", TotalBytes: 7, Children: []MemoryReport{{Name: "c", TotalBytes: 3}}},
		},
	}
	if got := r.Sum(); got != 25 {
		t.Fatalf("Sum() = %d, want 25", got)
	}
}

func TestMemoryReportJSONRoundTripsName(t *testing.T) {
	r := MemoryReport{Name: "leaf", TotalBytes: 42}
	j := r.JSON()
	if len(j) == 0 {
		t.Fatalf("JSON() returned empty string")
	}
	var back MemoryReport
	if err := json.Unmarshal([]byte(j), &back); err != nil {
		t.Fatalf("JSON() output does not parse: %v", err)
	}
	if back.Name != "leaf" || back.TotalBytes != 42 {
		t.Fatalf("round-tripped report = %+v, want name leaf, 42 bytes", back)
	}
}

func TestQueryLogRecordAndGet(t *testing.T) {
	log := NewQueryLog()
	id := log.Record(QueryRecord{Comparisons: 10, Elapsed: time.Millisecond})
	got, ok := log.Get(id)
	if !ok {
		t.Fatalf("Get(%d) returned false, want true", id)
	}
	if got.Comparisons != 10 {
		t.Fatalf("Comparisons = %d, want 10", got.Comparisons)
	}
}

func TestQueryLogEachVisitsInOrder(t *testing.T) {
	log := NewQueryLog()
	for i := 0; i < 5; i++ {
		log.Record(QueryRecord{Comparisons: i})
	}
	var order []int
	log.Each(func(id uint64, r QueryRecord) bool {
		order = append(order, r.Comparisons)
		return true
	})
	for i, v := range order {
		if v != i {
			t.Fatalf("Each visited out of order: %v", order)
		}
	}
}

func TestQueryLogSummaryAverages(t *testing.T) {
	log := NewQueryLog()
	log.Record(QueryRecord{Comparisons: 10})
	log.Record(QueryRecord{Comparisons: 20})
	s := log.Summary()
	if s.Comparisons != 15 {
		t.Fatalf("Summary().Comparisons = %d, want 15", s.Comparisons)
	}
}

func TestMapAppliesElementwise(t *testing.T) {
	in := []int{1, 2, 3}
	out := Map(in, func(x int) int { return x * x })
	want := []int{1, 4, 9}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("Map = %v, want %v", out, want)
		}
	}
}
