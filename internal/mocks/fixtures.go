package mocks

// ValidLessonPlanJSON is a complete model response for the topic "Water Cycle".
const ValidLessonPlanJSON = `{
  "title": "The Water Cycle",
  "learningObjectives": ["Name the stages of the water cycle", "Explain where rain comes from"],
  "storyHook": {
    "title": "Bindu the Raindrop",
    "narrative": "Bindu lived in a puddle near the school gate. One hot morning she felt lighter and lighter...",
    "discussionQuestions": ["Where did Bindu go?", "Why did she come back?"]
  },
  "rhyme": "Up goes the water, into the sky\nDown comes the rain, the fields say hi",
  "activity": {
    "name": "Cloud in a jar",
    "materials": ["glass jar", "hot water", "ice cubes", "plate"],
    "steps": ["Pour hot water into the jar", "Cover with a plate of ice", "Watch the cloud form"],
    "durationMinutes": "20"
  },
  "vocabularyBridge": ["cloud (बादल): water floating in the sky", "rain (बारिश): water falling from clouds"],
  "literacyDrill": {"focus": "Sight words", "exercises": ["Read: rain, cloud, sun"]},
  "numeracyDrill": {"focus": "Counting", "exercises": ["Count the drops on the window"]},
  "assessment": {"questions": ["What makes rain?"], "rubric": ["Names two stages of the cycle"]},
  "resources": ["Local weather chart"],
  "teacherTips": ["Use a kettle to show steam safely"],
  "imagePrompt": "A smiling raindrop rising from a puddle to a cloud"
}`
