// Package llm provides the model-backed intent classifier and the language
// model clients it calls. Gemini, OpenAI and Anthropic are supported, with
// rate limiting, a circuit breaker and response caching around the call.
package llm
