package roles

import (
	"strings"
	"testing"
)

func TestCatalogHasEightRoles(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 8 {
		t.Fatalf("expected 8 catalog roles, got %d", len(catalog))
	}
	for _, role := range catalog {
		if role.Name == "" || role.Industry == "" {
			t.Errorf("role missing name or industry: %+v", role)
		}
		if len(role.Questions.Technical) == 0 || len(role.Questions.Behavioral) == 0 {
			t.Errorf("role %q has an empty question bucket", role.Name)
		}
	}
}

func TestFindIsCaseInsensitive(t *testing.T) {
	role, ok := Find("  software   ENGINEER ")
	if !ok {
		t.Fatal("expected to find Software Engineer")
	}
	if role.Name != "Software Engineer" {
		t.Fatalf("unexpected role name %q", role.Name)
	}

	if _, ok := Find("Blacksmith"); ok {
		t.Fatal("did not expect to find Blacksmith")
	}
	if _, ok := Find(""); ok {
		t.Fatal("did not expect to find empty role")
	}
}

func TestCanonicalName(t *testing.T) {
	if got := CanonicalName("data scientist"); got != "Data Scientist" {
		t.Errorf("CanonicalName catalog hit = %q", got)
	}
	if got := CanonicalName("site   reliability engineer"); got != "Site Reliability Engineer" {
		t.Errorf("CanonicalName free text = %q", got)
	}
}

func TestParseInterviewType(t *testing.T) {
	tests := []struct {
		input  string
		want   InterviewType
		wantOK bool
	}{
		{"technical", InterviewTypeTechnical, true},
		{"a TECHNICAL interview please", InterviewTypeTechnical, true},
		{"behavioral", InterviewTypeBehavioral, true},
		{"hr interview", InterviewTypeBehavioral, true},
		{"whatever", InterviewTypeBehavioral, false},
		{"", InterviewTypeBehavioral, false},
	}
	for _, tt := range tests {
		got, ok := ParseInterviewType(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseInterviewType(%q) = (%q, %v), want (%q, %v)",
				tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestInterviewTypeDisplayName(t *testing.T) {
	if InterviewTypeTechnical.DisplayName() != "Technical Interview" {
		t.Errorf("unexpected technical display name")
	}
	if InterviewTypeBehavioral.DisplayName() != "Behavioral Interview" {
		t.Errorf("unexpected behavioral display name")
	}
}

func TestQuestionsFallsBackToGeneric(t *testing.T) {
	known := Questions("Software Engineer", InterviewTypeTechnical)
	if len(known) == 0 {
		t.Fatal("expected role-specific questions")
	}

	generic := Questions("Blacksmith", InterviewTypeBehavioral)
	if len(generic) == 0 {
		t.Fatal("expected generic questions for unknown role")
	}
	found := false
	for _, q := range generic {
		if strings.Contains(q, "Tell me about yourself") {
			found = true
		}
	}
	if !found {
		t.Errorf("generic bucket missing the opener, got %v", generic)
	}
}

func TestPickQuestionSkipsAsked(t *testing.T) {
	questions := Questions("Software Engineer", InterviewTypeTechnical)
	if len(questions) < 3 {
		t.Fatalf("bank too small for test: %d", len(questions))
	}

	first := PickQuestion("Software Engineer", InterviewTypeTechnical, nil)
	if first != questions[0] {
		t.Fatalf("expected first bank question, got %q", first)
	}

	next := PickQuestion("Software Engineer", InterviewTypeTechnical, []string{questions[0]})
	if next != questions[1] {
		t.Fatalf("expected second bank question, got %q", next)
	}

	// Asked matching is case and spacing insensitive.
	padded := "  " + strings.ToUpper(questions[0]) + " "
	next = PickQuestion("Software Engineer", InterviewTypeTechnical, []string{padded, questions[1]})
	if next != questions[2] {
		t.Fatalf("expected third bank question, got %q", next)
	}
}

func TestPickQuestionRepeatsWhenExhausted(t *testing.T) {
	questions := Questions("Sales Representative", InterviewTypeBehavioral)
	got := PickQuestion("Sales Representative", InterviewTypeBehavioral, questions)
	if got != questions[0] {
		t.Fatalf("expected wrap to first question, got %q", got)
	}
}
