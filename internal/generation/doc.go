// Package generation defines the boundary between the lesson pipeline and the
// external language and image models. It holds the Generator and
// ImageGenerator interfaces implemented by internal/platform/gemini, the
// errors those implementations return, and the parser that turns raw model
// output into a validated domain.LessonPlan.
package generation
