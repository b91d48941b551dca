package grammar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    *Grammar
		wantErr bool
	}{
		{name: "empty selects default", version: "", want: Default},
		{name: "1.0", version: "1.0", want: V1_0},
		{name: "1.1", version: "1.1", want: V1_1},
		{name: "v prefix", version: "v1.1", want: V1_1},
		{name: "surrounding space", version: " 1.0 ", want: V1_0},
		{name: "unknown", version: "2.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.version)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestLookupSuggestsClosestVersion(t *testing.T) {
	_, err := Lookup("1.2")
	if err == nil {
		t.Fatal("expected error for unknown version")
	}
	if !strings.Contains(err.Error(), "Did you mean") {
		t.Errorf("error %q should carry a suggestion", err.Error())
	}
}

func TestVersions(t *testing.T) {
	if diff := cmp.Diff([]string{"1.0", "1.1"}, Versions()); diff != "" {
		t.Errorf("Versions() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractIsNonExclusive(t *testing.T) {
	// "@s3" is a shard and its "s3" is a session; "f06" sits inside the
	// ctag run and is still reported as a deliverable.
	got := V1_0.Extract("rn01@s3ctag.x_yf06")
	want := map[Family][]string{
		FamilyRN:          {"rn01"},
		FamilySession:     {"s3"},
		FamilyShard:       {"@s3"},
		FamilyCTag:        {"ctag.x_yf06"},
		FamilyDeliverable: {"f06"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractEmptyFamiliesAreNonNil(t *testing.T) {
	got := V1_0.Extract("")
	for _, f := range Families {
		if got[f] == nil {
			t.Errorf("family %s is nil, want empty slice", f)
		}
	}
}

func TestSessionPatternsDifferByVersion(t *testing.T) {
	tests := []struct {
		name    string
		g       *Grammar
		tail    string
		wantSes []string
	}{
		{name: "1.0 accepts uppercase word", g: V1_0, tail: "s:AB_1", wantSes: []string{"s:AB_1"}},
		{name: "1.1 rejects uppercase", g: V1_1, tail: "s:AB", wantSes: []string{}},
		{name: "1.1 base36", g: V1_1, tail: "s:a9z", wantSes: []string{"s:a9z"}},
		{name: "numeric form in both", g: V1_1, tail: "s0042", wantSes: []string{"s0042"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.g.Extract(tt.tail)[FamilySession]
			if diff := cmp.Diff(tt.wantSes, got); diff != "" {
				t.Errorf("session mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActions(t *testing.T) {
	if got := ActionCodes(); got != "cpaqPe" {
		t.Errorf("ActionCodes() = %q, want %q", got, "cpaqPe")
	}
	for _, r := range "cpaqPe" {
		if !IsAction(r) {
			t.Errorf("IsAction(%q) = false", r)
		}
	}
	for _, r := range "CAQExyz ε" {
		if IsAction(r) {
			t.Errorf("IsAction(%q) = true", r)
		}
	}
	if got := ActionMeaning("P"); got != "plan" {
		t.Errorf("ActionMeaning(P) = %q", got)
	}
	if got := ActionMeaning("x"); got != "unknown" {
		t.Errorf("ActionMeaning(x) = %q", got)
	}
}

func TestRepairRune(t *testing.T) {
	for in, want := range map[rune]rune{'ε': 'e', 'е': 'e', 'а': 'a', 'с': 'c', 'ρ': 'p', 'Ρ': 'P'} {
		got, ok := RepairRune(in)
		if !ok || got != want {
			t.Errorf("RepairRune(%q) = %q, %v; want %q", in, got, ok, want)
		}
		if !IsAction(got) {
			t.Errorf("repair of %q is not an action code", in)
		}
	}
	if _, ok := RepairRune('x'); ok {
		t.Error("RepairRune('x') should not repair")
	}
}

func TestTagRunStopsAtBoundaries(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ABcctag.status:failedτ30→[0,0,0,0]", "ctag.status:failed"},
		{"ABcctag.loop→[0,0,0,0]", "ctag.loop"},
		{"ctag.a_b[", "ctag.a_b"},
	}
	for _, tt := range tests {
		if got := V1_0.TagRun.FindString(tt.in); got != tt.want {
			t.Errorf("TagRun.FindString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
