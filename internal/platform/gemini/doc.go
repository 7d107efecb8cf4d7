// Package gemini provides an implementation of the generation.Provider
// interface backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates a prompt and a
// system instruction into a genai GenerateContent call and returns the
// concatenated text of the first candidate. It does not retry; a failed call
// is reported to the generation gateway, which disables the primary provider
// and falls back to the secondary one.
//
// Responses are classified as follows:
//
//   - transport and API errors are returned wrapped with the provider name
//   - a candidate stopped by the safety filters yields generation.ErrContentBlocked
//   - a response without candidates or content yields generation.ErrInvalidResponse
package gemini
