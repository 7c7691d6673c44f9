// Package report holds the dashboard report-block types and their
// normalization rules.
package report

import (
	"strings"
)

// TimeMode selects the time range a block evaluates over.
type TimeMode string

const (
	// TimeInherit uses the dashboard's time picker.
	TimeInherit TimeMode = "inherit"

	// TimeAllTime ignores the picker and aggregates everything.
	TimeAllTime TimeMode = "all_time"
)

// Format selects how slice values are rendered.
type Format string

const (
	FormatNumber Format = "number"
	FormatUSD    Format = "usd"
)

// MetricsQuery is the aggregation query a block runs against the
// metrics backend.
type MetricsQuery struct {
	MetricKey         string         `json:"metricKey"`
	Start             string         `json:"start,omitempty"`
	End               string         `json:"end,omitempty"`
	Bucket            string         `json:"bucket,omitempty"`
	Agg               string         `json:"agg,omitempty"`
	EntityKind        string         `json:"entityKind,omitempty"`
	EntityID          string         `json:"entityId,omitempty"`
	EntityIDs         []string       `json:"entityIds,omitempty"`
	DataSourceID      string         `json:"dataSourceId,omitempty"`
	SourceGranularity string         `json:"sourceGranularity,omitempty"`
	Params            map[string]any `json:"params,omitempty"`
	Dimensions        map[string]any `json:"dimensions,omitempty"`
	GroupBy           []string       `json:"groupBy,omitempty"`
	GroupByEntityID   bool           `json:"groupByEntityId,omitempty"`
}

// PieBlock is a fully-normalized pie-chart report block.
type PieBlock struct {
	Kind   string   `json:"kind"`
	Title  string   `json:"title"`
	Format Format   `json:"format"`
	Time   TimeMode `json:"time"`

	// Query builds the slices; bucket is always "none".
	Query MetricsQuery `json:"query"`

	// GroupByKey groups rows into slices and keys drill-down filters,
	// LabelKey supplies the display label, RawKey the raw slice id.
	GroupByKey string `json:"groupByKey"`
	LabelKey   string `json:"labelKey"`
	RawKey     string `json:"rawKey"`
	TopN       int    `json:"topN"`
	OtherLabel string `json:"otherLabel"`
}

// PieBlockKind tags normalized pie blocks.
const PieBlockKind = "pie_v0"

const (
	defaultTopN = 5
	minTopN     = 1
	maxTopN     = 25
)

// NormalizePieBlock fills a partially-specified pie block with
// defaults. The input is a decoded JSON object; unknown fields are
// ignored. TopN is clamped to [1, 25], defaulting to 5 only when
// absent or non-numeric — an explicit 0 clamps to 1. The query is
// forced to bucket "none" and its groupBy set always contains
// GroupByKey, LabelKey, and RawKey.
func NormalizePieBlock(input map[string]any) PieBlock {
	title := stringField(input, "title", "Pie")

	format := FormatNumber
	if s, _ := input["format"].(string); Format(s) == FormatUSD {
		format = FormatUSD
	}

	timeMode := TimeInherit
	if s, _ := input["time"].(string); TimeMode(s) == TimeAllTime {
		timeMode = TimeAllTime
	}

	groupByKey := stringField(input, "groupByKey", "region")
	labelKey := stringField(input, "labelKey", groupByKey)
	rawKey := stringField(input, "rawKey", groupByKey)

	topN := defaultTopN
	if raw, ok := input["topN"]; ok {
		if n, ok := asInt(raw); ok {
			topN = n
		}
	}
	if topN < minTopN {
		topN = minTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	otherLabel := stringField(input, "otherLabel", "Other")

	rawQuery, _ := input["query"].(map[string]any)
	query := normalizeQuery(rawQuery, groupByKey, labelKey, rawKey)

	return PieBlock{
		Kind:       PieBlockKind,
		Title:      title,
		Format:     format,
		Time:       timeMode,
		Query:      query,
		GroupByKey: groupByKey,
		LabelKey:   labelKey,
		RawKey:     rawKey,
		TopN:       topN,
		OtherLabel: otherLabel,
	}
}

func normalizeQuery(raw map[string]any, groupByKey, labelKey, rawKey string) MetricsQuery {
	q := MetricsQuery{
		MetricKey: strings.TrimSpace(stringField(raw, "metricKey", "")),
		Start:     stringField(raw, "start", ""),
		End:       stringField(raw, "end", ""),
		Bucket:    "none",
		Agg:       "sum",
	}
	if s, ok := raw["agg"].(string); ok && s != "" {
		q.Agg = s
	}
	q.EntityKind = stringField(raw, "entityKind", "")
	q.EntityID = stringField(raw, "entityId", "")
	if ids, ok := raw["entityIds"].([]any); ok {
		for _, v := range ids {
			if s, ok := v.(string); ok {
				q.EntityIDs = append(q.EntityIDs, s)
			}
		}
	}
	q.DataSourceID = stringField(raw, "dataSourceId", "")
	q.SourceGranularity = stringField(raw, "sourceGranularity", "")
	if params, ok := raw["params"].(map[string]any); ok {
		q.Params = params
	}
	if dims, ok := raw["dimensions"].(map[string]any); ok {
		q.Dimensions = dims
	}
	if b, ok := raw["groupByEntityId"].(bool); ok {
		q.GroupByEntityID = b
	}

	seen := map[string]struct{}{}
	var groupBy []string
	add := func(k string) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		groupBy = append(groupBy, k)
	}
	if keys, ok := raw["groupBy"].([]any); ok {
		for _, v := range keys {
			if s, ok := v.(string); ok {
				add(s)
			}
		}
	}
	add(groupByKey)
	add(labelKey)
	add(rawKey)
	q.GroupBy = groupBy

	return q
}

// stringField returns the trimmed string at key, or fallback when the
// value is absent, not a string, or blank.
func stringField(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok {
		if t := strings.TrimSpace(s); t != "" {
			return t
		}
	}
	return fallback
}

// asInt coerces the numeric representations JSON decoding can produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
