// Concierge: a personal-assistant agent with long-term memory and
// scheduling tools, served over a WebSocket chat UI.
package main

import (
	"log"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/joho/godotenv"

	"github.com/becomeliminal/concierge/assistant"
	"github.com/becomeliminal/concierge/conversation"
	"github.com/becomeliminal/concierge/engine"
	"github.com/becomeliminal/concierge/memory"
	"github.com/becomeliminal/concierge/memory/embedder/mock"
	"github.com/becomeliminal/concierge/memory/embedder/openai"
	"github.com/becomeliminal/concierge/memory/store/chromem"
	"github.com/becomeliminal/concierge/server"
	"github.com/becomeliminal/concierge/thread"
)

func main() {
	// ============================================================================
	// CONFIGURATION
	// ============================================================================
	_ = godotenv.Load()

	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		log.Fatal("❌ ANTHROPIC_API_KEY environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	model := os.Getenv("CONCIERGE_MODEL")
	if model == "" {
		model = engine.DefaultModel
	}

	// ============================================================================
	// MEMORY SYSTEM SETUP
	// ============================================================================
	store, err := chromem.New()
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	var embedder memory.Embedder
	if openaiKey := os.Getenv("OPENAI_API_KEY"); openaiKey != "" {
		embedder, err = openai.New(openai.Config{APIKey: openaiKey})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("✅ Memory configured (chromem-go + OpenAI embeddings)")
	} else {
		embedder = mock.New()
		log.Println("⚠️  OPENAI_API_KEY not set; using mock embedder (memory search will not be semantic)")
	}

	memoryMgr, err := memory.NewSimpleManager(store, embedder, memory.DefaultConfig)
	if err != nil {
		log.Fatal(err)
	}

	// ============================================================================
	// THREAD STORE SETUP
	// ============================================================================
	var threads thread.Store
	if dbPath := os.Getenv("CONCIERGE_DB"); dbPath != "" {
		threads, err = thread.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("✅ Threads persisted to %s", dbPath)
	} else {
		threads = thread.NewMemoryStore()
		log.Println("✅ Threads kept in memory (set CONCIERGE_DB to persist)")
	}
	defer threads.Close()

	// ============================================================================
	// ENGINE SETUP
	// ============================================================================
	client := anthropic.NewClient(option.WithAPIKey(anthropicKey))

	registry := engine.NewToolRegistry()
	registry.Register(assistant.NewToolset(memoryMgr).Tools()...)
	log.Printf("✅ Registered tools: %s", strings.Join(registry.Names(), ", "))

	eng := engine.NewEngine(&client, registry, engine.WithMemory(memoryMgr))
	runner := conversation.New(eng, threads, conversation.WithModel(model))

	// ============================================================================
	// SERVER
	// ============================================================================
	srv := server.New(server.Config{Responder: runner})

	log.Printf("Chat UI:   http://localhost:%s/", port)
	log.Printf("WebSocket: ws://localhost:%s/ws", port)
	log.Printf("Health:    http://localhost:%s/health", port)

	if err := srv.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
