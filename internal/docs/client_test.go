package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	docs "google.golang.org/api/docs/v1"
)

func TestExtractText(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{
					Paragraph: &docs.Paragraph{
						Elements: []*docs.ParagraphElement{
							{TextRun: &docs.TextRun{Content: "Hello "}},
							{TextRun: &docs.TextRun{Content: "world\n"}},
						},
					},
				},
				{SectionBreak: &docs.SectionBreak{}},
				{
					Paragraph: &docs.Paragraph{
						Elements: []*docs.ParagraphElement{
							{TextRun: &docs.TextRun{Content: "Second paragraph\n"}},
							{InlineObjectElement: &docs.InlineObjectElement{}},
						},
					},
				},
			},
		},
	}

	assert.Equal(t, "Hello world\nSecond paragraph\n", extractText(doc))
}

func TestExtractTextEmptyBody(t *testing.T) {
	assert.Empty(t, extractText(&docs.Document{}))
}
