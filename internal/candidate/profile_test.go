package candidate

import (
	"reflect"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func fullProfile() Profile {
	return Profile{
		Name:              ptr("John Doe"),
		Email:             ptr("john@x.com"),
		Phone:             ptr("5551234"),
		YearsOfExperience: ptr(3),
		DesiredPositions:  []string{"backend"},
		Location:          ptr("NYC"),
		TechStack:         []string{"Python", "Postgres"},
	}
}

func TestMergeEmptyPatchIsIdentity(t *testing.T) {
	t.Parallel()

	for _, base := range []Profile{{}, {Name: ptr("Jane")}, fullProfile()} {
		merged := Merge(base, Profile{})
		if !reflect.DeepEqual(merged, base) {
			t.Fatalf("empty patch changed profile: %+v -> %+v", base, merged)
		}
	}
}

func TestMergeIgnoresEmptyValues(t *testing.T) {
	t.Parallel()

	base := Profile{Name: ptr("Jane"), TechStack: []string{"Go"}}
	patch := Profile{
		Name:      ptr("  "),
		Email:     ptr(""),
		TechStack: []string{},
	}

	merged := Merge(base, patch)

	if String(merged.Name) != "Jane" {
		t.Fatalf("expected name to stay Jane, got %q", String(merged.Name))
	}
	if merged.Email != nil {
		t.Fatalf("expected email to stay absent, got %q", String(merged.Email))
	}
	if merged.Filled(FieldEmail) {
		t.Fatalf("empty email must not count as filled")
	}
	if !reflect.DeepEqual(merged.TechStack, []string{"Go"}) {
		t.Fatalf("unexpected tech stack: %v", merged.TechStack)
	}
}

func TestMergeOverwritesScalarsAndExtendsLists(t *testing.T) {
	t.Parallel()

	base := Profile{
		Location:  ptr("Delhi"),
		TechStack: []string{"Go", "Postgres"},
	}
	patch := Profile{
		Location:          ptr(" Mumbai "),
		YearsOfExperience: ptr(0),
		TechStack:         []string{"postgres", "Kafka", ""},
	}

	merged := Merge(base, patch)

	if String(merged.Location) != "Mumbai" {
		t.Fatalf("expected location overwrite, got %q", String(merged.Location))
	}
	if merged.YearsOfExperience == nil || *merged.YearsOfExperience != 0 {
		t.Fatalf("expected zero years to be a filled value")
	}
	if want := []string{"Go", "Postgres", "Kafka"}; !reflect.DeepEqual(merged.TechStack, want) {
		t.Fatalf("expected %v, got %v", want, merged.TechStack)
	}
	if String(base.Location) != "Delhi" {
		t.Fatalf("merge must not mutate the base profile")
	}
}

func TestMissingKeepsRequiredOrder(t *testing.T) {
	t.Parallel()

	p := Profile{Name: ptr("John Doe")}
	missing := p.Missing()

	want := []Field{FieldEmail, FieldPhone, FieldYearsOfExperience, FieldDesiredPositions, FieldLocation, FieldTechStack}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
	if p.Complete() {
		t.Fatalf("profile with one field must not be complete")
	}
	if !fullProfile().Complete() {
		t.Fatalf("full profile must be complete")
	}
}

func TestCompletenessIsMonotonic(t *testing.T) {
	t.Parallel()

	p := fullProfile()
	patches := []Profile{
		{},
		{Name: ptr("")},
		{TechStack: []string{}},
		{Location: ptr("Boston")},
		{DesiredPositions: []string{"", " "}},
	}
	for _, patch := range patches {
		p = Merge(p, patch)
		if !p.Complete() {
			t.Fatalf("profile lost completeness after patch %+v", patch)
		}
	}
}

func TestExperienceTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		years *int
		want  Tier
	}{
		{name: "unknown", years: nil, want: TierJunior},
		{name: "zero", years: ptr(0), want: TierJunior},
		{name: "two", years: ptr(2), want: TierJunior},
		{name: "three", years: ptr(3), want: TierMid},
		{name: "five", years: ptr(5), want: TierMid},
		{name: "six", years: ptr(6), want: TierSenior},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Profile{YearsOfExperience: tt.years}
			if got := p.ExperienceTier(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFieldLabel(t *testing.T) {
	t.Parallel()

	if FieldYearsOfExperience.Label() != "years of experience" {
		t.Fatalf("unexpected label %q", FieldYearsOfExperience.Label())
	}
	if Field("unknown").Label() != "unknown" {
		t.Fatalf("unknown field should fall back to its key")
	}
}
