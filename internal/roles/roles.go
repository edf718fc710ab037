package roles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InterviewType selects which question track a session runs.
type InterviewType string

const (
	InterviewTypeTechnical  InterviewType = "technical"
	InterviewTypeBehavioral InterviewType = "behavioral"
)

// InterviewTypes lists the supported types in display order.
var InterviewTypes = []InterviewType{InterviewTypeTechnical, InterviewTypeBehavioral}

// ParseInterviewType maps user input (typed or spoken) to an interview type.
// "HR interview" maps to behavioral, matching the coaching flow this grew out
// of. Returns ok=false when nothing was recognized; callers default to
// behavioral in that case.
func ParseInterviewType(value string) (InterviewType, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(v, "tech"):
		return InterviewTypeTechnical, true
	case strings.Contains(v, "behav"), strings.Contains(v, "hr"):
		return InterviewTypeBehavioral, true
	default:
		return InterviewTypeBehavioral, false
	}
}

// DisplayName returns the form used in prompts and reports.
func (t InterviewType) DisplayName() string {
	switch t {
	case InterviewTypeTechnical:
		return "Technical Interview"
	case InterviewTypeBehavioral:
		return "Behavioral Interview"
	default:
		return "Interview"
	}
}

// Role describes one catalog entry plus its fallback questions.
type Role struct {
	Name       string      `yaml:"name"`
	Industry   string      `yaml:"industry"`
	FocusAreas []string    `yaml:"focus_areas"`
	Skills     []string    `yaml:"skills"`
	Questions  QuestionSet `yaml:"questions"`
}

// QuestionSet holds fallback questions split by interview type.
type QuestionSet struct {
	Technical  []string `yaml:"technical"`
	Behavioral []string `yaml:"behavioral"`
}

// ForType returns the question list for the given interview type.
func (qs QuestionSet) ForType(interviewType InterviewType) []string {
	if interviewType == InterviewTypeTechnical {
		return qs.Technical
	}
	return qs.Behavioral
}

// Catalog returns the built-in roles in bank order.
func Catalog() []Role {
	b, err := loadBank()
	if err != nil {
		return nil
	}
	return b.Roles
}

// Find looks up a catalog role by name, ignoring case and surrounding
// whitespace.
func Find(name string) (Role, bool) {
	collapsed := strings.Join(strings.Fields(name), " ")
	if collapsed == "" {
		return Role{}, false
	}
	b, err := loadBank()
	if err != nil {
		return Role{}, false
	}
	for _, role := range b.Roles {
		if strings.EqualFold(role.Name, collapsed) {
			return role, true
		}
	}
	return Role{}, false
}

// CanonicalName returns the catalog spelling for known roles and a
// title-cased form of the input for free-text roles.
func CanonicalName(name string) string {
	if role, ok := Find(name); ok {
		return role.Name
	}
	collapsed := strings.Join(strings.Fields(name), " ")
	return cases.Title(language.Und).String(collapsed)
}
