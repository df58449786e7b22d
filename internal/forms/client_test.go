package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	forms "google.golang.org/api/forms/v1"
)

func TestQuestionType(t *testing.T) {
	tests := []struct {
		name string
		item *forms.Item
		want string
	}{
		{
			"choice question",
			&forms.Item{QuestionItem: &forms.QuestionItem{Question: &forms.Question{
				ChoiceQuestion: &forms.ChoiceQuestion{Type: "RADIO"},
			}}},
			"choiceQuestion",
		},
		{
			"text question",
			&forms.Item{QuestionItem: &forms.QuestionItem{Question: &forms.Question{
				TextQuestion: &forms.TextQuestion{},
			}}},
			"textQuestion",
		},
		{
			"scale question",
			&forms.Item{QuestionItem: &forms.QuestionItem{Question: &forms.Question{
				ScaleQuestion: &forms.ScaleQuestion{High: 5},
			}}},
			"scaleQuestion",
		},
		{"non-question item", &forms.Item{Title: "Section header"}, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, questionType(tt.item))
		})
	}
}

func TestConvertAnswers(t *testing.T) {
	answers := map[string]forms.Answer{
		"q1": {
			QuestionId: "q1",
			TextAnswers: &forms.TextAnswers{
				Answers: []*forms.TextAnswer{{Value: "yes"}, {Value: "maybe"}},
			},
		},
	}

	out := convertAnswers(answers)
	require.Contains(t, out, "q1")
	assert.Equal(t, []string{"yes", "maybe"}, out["q1"])

	assert.Nil(t, convertAnswers(nil))
}
