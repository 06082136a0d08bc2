package gemini

import (
	"github.com/kathalab/lesson-api/internal/prompt"
	"google.golang.org/genai"
)

// ResponseSchema converts the prompt's section catalogue into the schema the
// model must answer with.
func ResponseSchema(sections []prompt.Section) *genai.Schema {
	return objectSchema("A lesson plan for primary school children.", sections)
}

func objectSchema(description string, sections []prompt.Section) *genai.Schema {
	schema := &genai.Schema{
		Type:             genai.TypeObject,
		Description:      description,
		Properties:       make(map[string]*genai.Schema, len(sections)),
		PropertyOrdering: make([]string, 0, len(sections)),
	}

	for _, s := range sections {
		schema.Properties[s.Key] = sectionSchema(s)
		schema.PropertyOrdering = append(schema.PropertyOrdering, s.Key)
		if s.Required {
			schema.Required = append(schema.Required, s.Key)
		}
	}

	return schema
}

func sectionSchema(s prompt.Section) *genai.Schema {
	switch s.Kind {
	case prompt.KindObject:
		return objectSchema(s.Description, s.Fields)
	case prompt.KindList:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: s.Description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	default:
		return &genai.Schema{
			Type:        genai.TypeString,
			Description: s.Description,
		}
	}
}
