package parser

import (
	"testing"
	"time"
)

func lineAt(source string, sec int) *ParsedLine {
	return &ParsedLine{
		Raw:    source,
		Source: source,
		Decoded: &DecodedLine{
			Timestamp: time.Date(2026, 1, 15, 10, 0, sec, 0, time.UTC),
		},
	}
}

func TestMergeChronological(t *testing.T) {
	a := []*ParsedLine{lineAt("a", 0), lineAt("a", 2), lineAt("a", 4)}
	b := []*ParsedLine{lineAt("b", 1), lineAt("b", 3)}

	merged := MergeChronological(a, b)
	if len(merged) != 5 {
		t.Fatalf("Got %d lines, want 5", len(merged))
	}

	wantSources := []string{"a", "b", "a", "b", "a"}
	for i, want := range wantSources {
		if merged[i].Source != want {
			t.Errorf("merged[%d].Source = %q, want %q", i, merged[i].Source, want)
		}
		if i > 0 && merged[i].Timestamp().Before(merged[i-1].Timestamp()) {
			t.Errorf("Lines not in chronological order at index %d", i)
		}
	}
}

func TestMergeChronological_TiesKeepSourceOrder(t *testing.T) {
	a := []*ParsedLine{lineAt("a", 5)}
	b := []*ParsedLine{lineAt("b", 5)}
	c := []*ParsedLine{lineAt("c", 5)}

	merged := MergeChronological(c[:0], a, b, c)
	got := ""
	for _, l := range merged {
		got += l.Source
	}
	if got != "abc" {
		t.Errorf("merge order = %q, want %q", got, "abc")
	}
}

func TestMergeChronological_Empty(t *testing.T) {
	if merged := MergeChronological(); len(merged) != 0 {
		t.Errorf("MergeChronological() = %v, want empty", merged)
	}
	if merged := MergeChronological(nil, []*ParsedLine{}); len(merged) != 0 {
		t.Errorf("MergeChronological(empty streams) = %v, want empty", merged)
	}
}
