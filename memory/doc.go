// Package memory provides long-term vector memory for the assistant.
//
// Memories are opaque free-text notes namespaced by user identifier (the
// conversation email). Schedule items piggyback on the same store as
// JSON-serialized text; retrieval is always semantic similarity search,
// never exact lookup.
//
// Architecture:
//   - Store: vector storage backend (chromem-go embedded database)
//   - Embedder: text-to-vector conversion (OpenAI API, or a deterministic
//     mock for tests and offline runs)
//   - Manager: orchestrates add, search, and conversation recording
//
// Integration with the engine:
//   - tools call Add/Search during the TOOLS phase
//   - the engine calls RecordConversation when a turn reaches its final
//     answer, so every completed exchange becomes retrievable later
package memory
