package roles

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

// lastResortQuestion is asked when a bucket is exhausted or empty.
const lastResortQuestion = "Can you tell me about your experience?"

type bank struct {
	Generic QuestionSet `yaml:"generic"`
	Roles   []Role      `yaml:"roles"`
}

var loadBank = sync.OnceValues(func() (*bank, error) {
	var b bank
	if err := yaml.Unmarshal(questionsYAML, &b); err != nil {
		return nil, fmt.Errorf("parse embedded question bank: %w", err)
	}
	return &b, nil
})

// Questions returns the fallback questions for a role and interview type.
// Unknown roles draw from the generic set.
func Questions(roleName string, interviewType InterviewType) []string {
	b, err := loadBank()
	if err != nil {
		return nil
	}
	if role, ok := Find(roleName); ok {
		if qs := role.Questions.ForType(interviewType); len(qs) > 0 {
			return qs
		}
	}
	return b.Generic.ForType(interviewType)
}

// PickQuestion selects the next fallback question: the first bank entry not
// yet asked. When every entry has been asked the bank repeats from the top,
// and an empty bucket falls back to a generic experience question.
func PickQuestion(roleName string, interviewType InterviewType, asked []string) string {
	questions := Questions(roleName, interviewType)
	if len(questions) == 0 {
		return lastResortQuestion
	}
	seen := make(map[string]struct{}, len(asked))
	for _, q := range asked {
		seen[normalizeQuestion(q)] = struct{}{}
	}
	for _, q := range questions {
		if _, ok := seen[normalizeQuestion(q)]; !ok {
			return q
		}
	}
	return questions[0]
}

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
