package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/memagent/internal/config"
	"github.com/petasbytes/memagent/internal/provider"
	"github.com/petasbytes/memagent/internal/runner"
	"github.com/petasbytes/memagent/internal/telemetry"
	"github.com/petasbytes/memagent/memory"
	"github.com/petasbytes/memagent/tools"
)

func main() {
	logger := newLogger(os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	// Load prior conversation history if it exists; a broken file is a
	// warning, not a reason to refuse the session.
	store, err := memory.Load(cfg.MemoryPath)
	if err != nil {
		logger.Warn("memory load failed; starting with empty history", "err", err)
	}

	client := provider.NewClient(cfg.APIKey)
	r := runner.New(client, tools.Registry())
	r.LoopBudget = cfg.LoopBudget
	model := provider.Model(cfg.Model)

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("AI agent with memory (%d conversations loaded)\n", store.Len())
	printHelp()

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case line, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		line = strings.TrimSpace(line)

		// Meta-commands bypass the agent loop entirely.
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit" || line == "bye":
			fmt.Println("Agent: Goodbye!")
			break outer
		case line == "help":
			printHelp()
			continue
		case line == "memory":
			showRecent(store, 5)
			continue
		case line == "clear memory":
			store.Clear()
			if err := store.Save(); err != nil {
				logger.Warn("memory save failed", "err", err)
			}
			fmt.Println("Memory cleared")
			continue
		case strings.HasPrefix(line, "search "):
			showMatches(store.Search(strings.TrimSpace(strings.TrimPrefix(line, "search "))))
			continue
		}

		// A fresh turn: recent history context plus the new user message.
		conv := store.ContextMessages(cfg.ContextLimit)
		conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(line)))

		turnCtx := telemetry.WithTurnID(ctx, fmt.Sprintf("turn-%d", time.Now().UnixNano()))
		final, _, err := r.RunTurn(turnCtx, model, conv)
		if err != nil {
			if ctx.Err() != nil {
				break outer
			}
			// Turn abandoned: nothing recorded, loop is ready for a fresh turn.
			logger.Error("turn failed", "err", err)
			continue
		}
		if strings.TrimSpace(final) == "" {
			continue
		}

		// Only a fully completed turn reaches the store.
		store.Add(line, final)
		if err := store.Save(); err != nil {
			logger.Warn("memory save failed; continuing in-memory only", "err", err)
		} else {
			telemetry.Emit("memory_saved", map[string]any{"records": store.Len()})
		}
		telemetry.EmitTurnFeatures(turnCtx, line, final)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("stdin read error", "err", err)
	}
}

func printHelp() {
	fmt.Println("Commands: memory | search <keyword> | clear memory | help | quit")
}

// showRecent prints the last limit exchanges, oldest first, clipping long replies.
func showRecent(store *memory.Store, limit int) {
	recs := store.Recent(limit)
	if len(recs) == 0 {
		fmt.Println("No conversations stored yet")
		return
	}
	for _, rec := range recs {
		fmt.Printf("[%s] You: %s\n", rec.Timestamp.Format("2006-01-02 15:04"), rec.User)
		fmt.Printf("Agent: %s\n", clipRunes(rec.Agent, 120))
		fmt.Println(strings.Repeat("-", 40))
	}
}

func showMatches(recs []memory.ConversationRecord) {
	if len(recs) == 0 {
		fmt.Println("No matches found")
		return
	}
	for _, rec := range recs {
		fmt.Printf("[%s] You: %s\n", rec.Timestamp.Format("2006-01-02 15:04"), rec.User)
		fmt.Printf("Agent: %s\n", clipRunes(rec.Agent, 120))
	}
}

func clipRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
