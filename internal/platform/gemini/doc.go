// Package gemini implements the generation interfaces using Google's Gemini
// API through the google.golang.org/genai SDK.
//
// TextClient asks a text model for a lesson plan in JSON mode, constrained by
// a response schema built from the prompt's section catalogue. ImageClient
// asks an image model for a single illustration and never fails the caller:
// any problem is logged and reported as "no image".
//
// Both clients depend on small interfaces satisfied by *genai.Models so tests
// can substitute fakes.
package gemini
