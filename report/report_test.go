package report

import (
	"reflect"
	"testing"
)

func TestNormalizePieBlockDefaults(t *testing.T) {
	b := NormalizePieBlock(map[string]any{})

	if b.Kind != PieBlockKind {
		t.Fatalf("kind = %q", b.Kind)
	}
	if b.Title != "Pie" || b.Format != FormatNumber || b.Time != TimeInherit {
		t.Fatalf("unexpected defaults: %+v", b)
	}
	if b.GroupByKey != "region" || b.LabelKey != "region" || b.RawKey != "region" {
		t.Fatalf("unexpected key defaults: %+v", b)
	}
	if b.TopN != 5 || b.OtherLabel != "Other" {
		t.Fatalf("unexpected topN/otherLabel: %d/%q", b.TopN, b.OtherLabel)
	}
	if b.Query.Bucket != "none" || b.Query.Agg != "sum" {
		t.Fatalf("unexpected query defaults: %+v", b.Query)
	}
	if !reflect.DeepEqual(b.Query.GroupBy, []string{"region"}) {
		t.Fatalf("groupBy = %v", b.Query.GroupBy)
	}
}

func TestNormalizePieBlockTopNClamp(t *testing.T) {
	cases := []struct {
		in   map[string]any
		want int
	}{
		{map[string]any{"topN": float64(999)}, 25},
		{map[string]any{"topN": float64(0)}, 1},
		{map[string]any{"topN": float64(-3)}, 1},
		{map[string]any{"topN": float64(12)}, 12},
		{map[string]any{"topN": "ten"}, 5},
		{map[string]any{}, 5},
	}
	for _, c := range cases {
		if got := NormalizePieBlock(c.in).TopN; got != c.want {
			t.Fatalf("topN %v -> %d, want %d", c.in["topN"], got, c.want)
		}
	}
}

func TestNormalizePieBlockQueryGroupByUnion(t *testing.T) {
	b := NormalizePieBlock(map[string]any{
		"groupByKey": "stage_id",
		"labelKey":   "stage_name",
		"query": map[string]any{
			"metricKey": "  deals.count ",
			"agg":       "count",
			"bucket":    "day",
			"groupBy":   []any{"owner_id", "stage_id"},
		},
	})

	if b.Query.MetricKey != "deals.count" {
		t.Fatalf("metricKey = %q", b.Query.MetricKey)
	}
	if b.Query.Bucket != "none" {
		t.Fatalf("bucket must be forced to none, got %q", b.Query.Bucket)
	}
	if b.Query.Agg != "count" {
		t.Fatalf("agg = %q", b.Query.Agg)
	}
	// Caller order first, then the grouping keys, deduplicated.
	want := []string{"owner_id", "stage_id", "stage_name"}
	if !reflect.DeepEqual(b.Query.GroupBy, want) {
		t.Fatalf("groupBy = %v, want %v", b.Query.GroupBy, want)
	}
	if b.RawKey != "stage_id" {
		t.Fatalf("rawKey should default to groupByKey, got %q", b.RawKey)
	}
}

func TestNormalizePieBlockExplicitFields(t *testing.T) {
	b := NormalizePieBlock(map[string]any{
		"title":      "  Revenue by Region  ",
		"format":     "usd",
		"time":       "all_time",
		"otherLabel": "Rest",
	})
	if b.Title != "Revenue by Region" {
		t.Fatalf("title = %q", b.Title)
	}
	if b.Format != FormatUSD || b.Time != TimeAllTime || b.OtherLabel != "Rest" {
		t.Fatalf("unexpected block: %+v", b)
	}

	// Unknown format/time values fall back to defaults.
	b = NormalizePieBlock(map[string]any{"format": "eur", "time": "yesterday"})
	if b.Format != FormatNumber || b.Time != TimeInherit {
		t.Fatalf("unexpected fallback: %+v", b)
	}
}
