package pagination

import (
	"reflect"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	p := New(0, -3)
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestNew_MaxLimit(t *testing.T) {
	p := New(500, 0)
	if p.Limit != MaxLimit {
		t.Errorf("expected max limit %d, got %d", MaxLimit, p.Limit)
	}
}

func TestApply(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	page := Apply(items, New(2, 1))
	if !reflect.DeepEqual(page.Items, []string{"b", "c"}) {
		t.Errorf("Items = %v", page.Items)
	}
	if page.Total != 5 || !page.HasMore {
		t.Errorf("Total = %d HasMore = %v", page.Total, page.HasMore)
	}

	page = Apply(items, New(10, 3))
	if !reflect.DeepEqual(page.Items, []string{"d", "e"}) || page.HasMore {
		t.Errorf("tail page = %+v", page)
	}

	page = Apply(items, New(2, 9))
	if len(page.Items) != 0 {
		t.Errorf("expected empty page past the end, got %v", page.Items)
	}
}

func TestParams_Navigation(t *testing.T) {
	p := Params{Limit: 10, Offset: 5}
	if !p.HasPrevious() {
		t.Error("expected HasPrevious")
	}
	if p.NextOffset() != 15 {
		t.Errorf("NextOffset = %d", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("PreviousOffset = %d", p.PreviousOffset())
	}
	if p.HasNext(15) {
		t.Error("HasNext(15) should be false")
	}
	if !p.HasNext(16) {
		t.Error("HasNext(16) should be true")
	}
}

func TestPage_Params(t *testing.T) {
	page := Apply([]int{1, 2, 3, 4, 5}, New(2, 2))
	p := page.Params()
	if p.Limit != 2 || p.Offset != 2 {
		t.Errorf("Params = %+v", p)
	}
	if !p.HasPrevious() || p.PreviousOffset() != 0 || p.NextOffset() != 4 {
		t.Errorf("navigation from %+v is wrong", p)
	}
}
