// Package generation routes completion requests to a language-model provider.
//
// Two providers are configured: a primary and a secondary. The primary is
// used only while its ProviderHealth reports active; the first failure
// disables it for the rest of the process and every later request goes
// straight to the secondary. The health starts pending and is resolved by a
// one-shot startup probe (see StartProbe). There are no retries, no backoff
// and no reset timer.
//
// The package also builds the flashcard and quiz prompts sent through the
// gateway and parses the model's JSON answers back into domain values.
package generation
