// Package biz implements the MediSearch business logic.
//
// A chat turn runs these components in order:
//   - EntityExtractor: pulls medical terms out of the user message
//   - Retriever: builds the weighted bool query and searches conditions, empty when disconnected
//   - Generator: assembles context and prompt and asks the LLM for the answer
//   - ChatService: drives the above and persists the session
package biz
