// Package llm classifies payee names with hosted language models. It
// supports OpenAI and Anthropic, and layers rate limiting, retries, result
// caching and multi-call consensus over the raw provider clients.
package llm
