package prompt

// Kind is the JSON shape of a lesson plan section.
type Kind string

// Section kinds.
const (
	KindText   Kind = "text"
	KindList   Kind = "list of text"
	KindObject Kind = "object"
)

// Section describes one key of the lesson plan output schema.
type Section struct {
	Key         string
	Kind        Kind
	Description string
	Required    bool
	// Fields is set only for KindObject sections.
	Fields []Section
}

var catalogue = []Section{
	{
		Key:         "title",
		Kind:        KindText,
		Description: "A short, child-friendly title for the lesson.",
	},
	{
		Key:         "learningObjectives",
		Kind:        KindList,
		Description: "Three or four concrete things the children will be able to do by the end of the lesson.",
	},
	{
		Key:         "storyHook",
		Kind:        KindObject,
		Description: "An opening story that introduces the topic through a relatable character.",
		Required:    true,
		Fields: []Section{
			{Key: "title", Kind: KindText, Description: "The story title."},
			{Key: "narrative", Kind: KindText, Description: "The story itself, 150 to 250 words.", Required: true},
			{Key: "discussionQuestions", Kind: KindList, Description: "Two or three questions to ask after the story."},
		},
	},
	{
		Key:         "rhyme",
		Kind:        KindText,
		Description: "An original rhyme or song of eight to twelve lines, one line per line break.",
	},
	{
		Key:         "activity",
		Kind:        KindObject,
		Description: "A hands-on activity using low-cost classroom or household materials.",
		Required:    true,
		Fields: []Section{
			{Key: "name", Kind: KindText, Description: "The activity name.", Required: true},
			{Key: "materials", Kind: KindList, Description: "Materials needed."},
			{Key: "steps", Kind: KindList, Description: "Numbered steps the teacher follows."},
			{Key: "durationMinutes", Kind: KindText, Description: "Approximate duration in minutes."},
		},
	},
	{
		Key:         "vocabularyBridge",
		Kind:        KindList,
		Description: "Five to eight key words, each formatted as \"word (translation): child-friendly meaning\".",
	},
	{
		Key:         "literacyDrill",
		Kind:        KindObject,
		Description: "A short reading or writing practice tied to the topic.",
		Fields: []Section{
			{Key: "focus", Kind: KindText, Description: "The literacy skill practised."},
			{Key: "exercises", Kind: KindList, Description: "Three to five short exercises."},
		},
	},
	{
		Key:         "numeracyDrill",
		Kind:        KindObject,
		Description: "A short counting, measuring or arithmetic practice tied to the topic.",
		Fields: []Section{
			{Key: "focus", Kind: KindText, Description: "The numeracy skill practised."},
			{Key: "exercises", Kind: KindList, Description: "Three to five short exercises."},
		},
	},
	{
		Key:         "assessment",
		Kind:        KindObject,
		Description: "A quick check for understanding.",
		Fields: []Section{
			{Key: "questions", Kind: KindList, Description: "Three to five questions with expected answers."},
			{Key: "rubric", Kind: KindList, Description: "Simple success criteria the teacher can observe."},
		},
	},
	{
		Key:         "resources",
		Kind:        KindList,
		Description: "Books, songs or freely available materials that extend the lesson.",
	},
	{
		Key:         "teacherTips",
		Kind:        KindList,
		Description: "Practical tips for mixed-ability groups and large classes.",
	},
	{
		Key:         "imagePrompt",
		Kind:        KindText,
		Description: "One sentence describing a single illustration for the lesson, with no text in the picture.",
	},
}

// Sections returns the lesson plan output schema in prompt order.
// The returned slice is a copy and may be modified by the caller.
func Sections() []Section {
	out := make([]Section, len(catalogue))
	for i, s := range catalogue {
		out[i] = s
		if s.Fields != nil {
			out[i].Fields = append([]Section(nil), s.Fields...)
		}
	}
	return out
}

// Keys returns the top-level schema keys in prompt order.
func Keys() []string {
	keys := make([]string, len(catalogue))
	for i, s := range catalogue {
		keys[i] = s.Key
	}
	return keys
}
