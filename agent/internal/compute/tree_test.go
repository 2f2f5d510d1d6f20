package compute

import (
	"testing"

	"github.com/Ckuran148/Jolt/pkg/types"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"### Eggs *** ###### Min: 160", "Eggs"},
		{"Chili Max: 40 Range: 1", "Chili"},
		{"**Lettuce** Range: 33-41", "Lettuce"},
		{"  Walk-in Cooler  ", "Walk-in Cooler"},
		{"Min: 10", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlatten_PostOrderAndAnsweredOnly(t *testing.T) {
	child := reading("## Chicken Temp Min: 165", 100, 168.2)
	parent := withSub("Cook Chicken", "", child)
	parent.ResultValue = "done"
	items := []types.ItemResult{
		{ItemTemplate: &types.ItemTemplate{Text: "Unanswered"}},
		parent,
		{ItemTemplate: &types.ItemTemplate{Text: "Marked N/A"}, IsMarkedNA: true},
	}

	flat := Flatten(items)
	if len(flat) != 3 {
		t.Fatalf("len(Flatten) = %d, want 3", len(flat))
	}
	wantTitles := []string{"Chicken Temp", "Cook Chicken", "Marked N/A"}
	for i, want := range wantTitles {
		if flat[i].CleanTitle != want {
			t.Errorf("flat[%d].CleanTitle = %q, want %q", i, flat[i].CleanTitle, want)
		}
	}
	if flat[0].RawTitle != "## Chicken Temp Min: 165" {
		t.Errorf("RawTitle = %q, want original prompt", flat[0].RawTitle)
	}
	if flat[0].Node != &items[1].SubList.ItemResults[0] {
		t.Error("Node should point into the original tree")
	}
}

func TestFlatten_ZeroIsAnAnswer(t *testing.T) {
	flat := Flatten([]types.ItemResult{{ResultDouble: num(0)}})
	if len(flat) != 1 {
		t.Errorf("len(Flatten) = %d, want 1: a numeric 0 is still an answer", len(flat))
	}
}

func TestWalk_VisitsTextSublists(t *testing.T) {
	text := withSub("Info", "", answered("Hidden step", 10))
	text.Type = "TEXT"
	var seen []string
	Walk([]types.ItemResult{text}, func(it *types.ItemResult) {
		seen = append(seen, it.Prompt())
	})
	if len(seen) != 2 || seen[1] != "Hidden step" {
		t.Errorf("Walk visited %v, want parent then sublist child", seen)
	}
}

func TestWalk_NilInputs(t *testing.T) {
	calls := 0
	Walk(nil, func(*types.ItemResult) { calls++ })
	Walk([]types.ItemResult{{SubList: &types.SubList{}}}, func(*types.ItemResult) { calls++ })
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCompletionTimes_SortedAcrossSublists(t *testing.T) {
	items := []types.ItemResult{
		answered("Late step", 300),
		withSub("Batch", "", answered("First step", 100), answered("Unanswered", 0)),
		answered("Middle step", 200),
	}
	ts := completionTimes(items)
	if len(ts) != 3 || ts[0] != 100 || ts[1] != 200 || ts[2] != 300 {
		t.Fatalf("completionTimes = %v, want [100 200 300]", ts)
	}
	if got := spread(ts); got != 200 {
		t.Errorf("spread = %d, want 200", got)
	}
	if got := spread(ts[1:]); got != 100 {
		t.Errorf("spread of two = %d, want 100", got)
	}
}
