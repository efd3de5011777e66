package formz

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/clockz"
)

func TestForm_FieldEmissionWritesTree(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("profile", WithDebounce(0))
	city := reg.Field(form, "address.city")
	tag := reg.Field(form, "tags[1]")

	city.OnChange("Lisbon")
	tag.OnChange("go")

	want := map[string]any{
		"address": map[string]any{"city": "Lisbon"},
		"tags":    []any{nil, "go"},
	}
	if diff := cmp.Diff(want, form.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_WriteIsSynchronousWithEmission(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	f := reg.Field(form, "name")

	var observed any
	f.ValueStream().Subscribe(func(any) {
		observed, _ = form.FieldValue("name")
	})
	f.OnChange("ada")

	if observed != "ada" {
		t.Errorf("expected tree updated before later subscribers run, got %v", observed)
	}
}

func TestForm_EachWriteProducesNewRoot(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithInitialValues(map[string]any{"a": 1, "b": map[string]any{"c": 2}}), WithDebounce(0))
	a := reg.Field(form, "a")

	var roots []map[string]any
	form.ValuesStream().Subscribe(func(v map[string]any) { roots = append(roots, v) })

	before := form.Values()
	a.OnChange(10)
	after := form.Values()

	if same(before, after) {
		t.Error("expected a new root after a write")
	}
	if before["a"] != 1 {
		t.Errorf("expected earlier root unchanged, got %v", before["a"])
	}
	if !same(before["b"].(map[string]any), after["b"].(map[string]any)) {
		t.Error("expected untouched branch to be shared")
	}
	if len(roots) != 2 || !same(roots[1], after) {
		t.Errorf("expected subscribers to receive the new root, got %d emissions", len(roots))
	}
}

func TestForm_FieldValueUnknownPath(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))

	if v, ok := form.FieldValue("missing.path"); ok || v != nil {
		t.Errorf("expected absent value, got %v (%v)", v, ok)
	}
}

func TestForm_FieldNamesAppendInOrder(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	reg.Field(form, "b")
	reg.Field(form, "a")
	reg.Field(form, "c")
	reg.Field(form, "a")

	if got := form.FieldNames(); !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Errorf("unexpected field names %v", got)
	}
	if f, ok := form.Field("c"); !ok || f.Name() != "c" {
		t.Error("expected Field to find c")
	}
	if _, ok := form.Field("zzz"); ok {
		t.Error("expected unknown field lookup to fail")
	}
}

func TestForm_ErrorsHideUntouched(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	a := reg.Field(form, "a", WithValidator(func(v any, _ map[string]any) string {
		if v == nil {
			return "a is required"
		}
		return ""
	}))
	reg.Field(form, "b", WithValidator(func(v any, _ map[string]any) string {
		if v == nil {
			return "b is required"
		}
		return ""
	}))

	visible := form.Errors(true)
	defer visible.Close()
	all := form.Errors(false)
	defer all.Close()

	if got := visible.Get(); len(got) != 0 {
		t.Errorf("expected no visible errors before blur, got %v", got)
	}
	if got := all.Get(); !slices.Equal(got, []string{"a is required", "b is required"}) {
		t.Errorf("expected both errors, got %v", got)
	}

	a.OnBlur()

	if got := visible.Get(); !slices.Equal(got, []string{"a is required"}) {
		t.Errorf("expected only a's error, got %v", got)
	}
}

func TestForm_ErrorsFilter(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	reg.Field(form, "a", WithValidator(required))
	reg.Field(form, "b", WithValidator(func(any, map[string]any) string { return "b bad" }))

	errs := form.Errors(false, "b")
	defer errs.Close()

	if got := errs.Get(); !slices.Equal(got, []string{"b bad"}) {
		t.Errorf("expected only b's error, got %v", got)
	}
}

func TestForm_ErrorsFollowNewFields(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	errs := form.Errors(false)
	defer errs.Close()

	if got := errs.Get(); len(got) != 0 {
		t.Fatalf("expected no errors, got %v", got)
	}

	f := reg.Field(form, "late", WithValidator(required))

	if got := errs.Get(); !slices.Equal(got, []string{"required"}) {
		t.Errorf("expected the late field's error, got %v", got)
	}

	f.OnChange("ok")

	if got := errs.Get(); len(got) != 0 {
		t.Errorf("expected errors to clear, got %v", got)
	}
}

func TestForm_ErrorsSkipDisabled(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	f := reg.Field(form, "a", WithValidator(required))
	errs := form.Errors(false)
	defer errs.Close()

	f.SetDisabled(true)
	if got := errs.Get(); len(got) != 0 {
		t.Errorf("expected disabled field to contribute nothing, got %v", got)
	}
}

func TestForm_ErrorsDebounced(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := newTestRegistry(t)
	form := reg.Form("f", WithClock(clock))
	f := reg.Field(form, "a", WithValidator(required))
	errs := form.Errors(false)
	defer errs.Close()

	if got := errs.Get(); !slices.Equal(got, []string{"required"}) {
		t.Fatalf("expected initial error, got %v", got)
	}

	f.OnChange("x")
	if got := errs.Get(); len(got) != 1 {
		t.Errorf("expected aggregate errors to lag, got %v", got)
	}

	clock.Advance(DefaultDebounce + 10*time.Millisecond)
	clock.BlockUntilReady()

	if !waitFor(t, time.Second, func() bool { return len(errs.Get()) == 0 }) {
		t.Errorf("expected errors to clear after the window, got %v", errs.Get())
	}
}

func TestForm_ErrorsCloseReleasesLinks(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	reg.Field(form, "a", WithValidator(required))

	base := form.FieldNamesStream().Subscribers()
	errs := form.Errors(false)
	if form.FieldNamesStream().Subscribers() != base+1 {
		t.Fatal("expected Errors to follow field names")
	}
	errs.Close()
	if form.FieldNamesStream().Subscribers() != base {
		t.Error("expected Close to release the field names link")
	}
}

func TestForm_TriggerValidation(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	counts := map[string]int{}
	for _, name := range []string{"a", "b", "c"} {
		reg.Field(form, name, WithValidator(func(any, map[string]any) string {
			counts[name]++
			return ""
		}))
	}

	form.TriggerValidation()

	for _, name := range []string{"a", "b", "c"} {
		if counts[name] != 2 {
			t.Errorf("expected %s validated twice, got %d", name, counts[name])
		}
	}
}

func TestForm_DestroyStopsWrites(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	f := reg.Field(form, "name", WithInitialValue("before"))

	form.Destroy()
	form.Destroy()
	f.OnChange("after")

	if v, _ := form.FieldValue("name"); v != "before" {
		t.Errorf("expected tree frozen after destroy, got %v", v)
	}
	if v, _ := f.Value(); v != "after" {
		t.Errorf("expected field to keep its own state, got %v", v)
	}
	if _, ok := reg.LookupForm("f"); !ok {
		t.Error("expected Destroy to leave the form registered")
	}
}

func TestForm_OutOfRangeIndexDropsWrite(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0), WithInitialValues(map[string]any{"name": "ada"}))

	items := reg.Field(form, "items.100000000000000", WithInitialValue("x"))
	items.OnChange("y")

	if v, _ := items.Value(); v != "y" {
		t.Errorf("expected the field to keep its own value, got %v", v)
	}
	if _, ok := form.FieldValue("items"); ok {
		t.Error("expected the write to be dropped from the tree")
	}
	if diff := cmp.Diff(map[string]any{"name": "ada"}, form.Values()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if got := form.FieldNames(); !slices.Equal(got, []string{"items.100000000000000"}) {
		t.Errorf("expected the field to stay registered, got %v", got)
	}
}

func TestForm_ErrorsConcurrentSettles(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("f", WithDebounce(0))
	const n = 8
	fields := make([]*Field, n)
	for i := range n {
		fields[i] = reg.Field(form, "f"+string(rune('a'+i)), WithValidator(required))
	}
	errs := form.Errors(false)
	defer errs.Close()

	start := make(chan struct{})
	done := make(chan struct{}, n)
	for _, f := range fields {
		go func() {
			<-start
			f.OnChange("ok")
			done <- struct{}{}
		}()
	}
	close(start)
	for range n {
		<-done
	}

	if got := errs.Get(); len(got) != 0 {
		t.Errorf("expected every error cleared, got %v", got)
	}
}
