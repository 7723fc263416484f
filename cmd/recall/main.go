// Copyright 2025 Recall Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/recallhq/recall"
	"github.com/recallhq/recall/ai"
	"github.com/recallhq/recall/core"
	"github.com/recallhq/recall/extract"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Personal content vault with AI enrichment and semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the vault database directory",
				Value:   "./recall_db",
				EnvVars: []string{"RECALL_DB"},
			},
			&cli.StringFlag{
				Name:    "owner",
				Aliases: []string{"o"},
				Usage:   "Owner whose vault partition to operate on",
				EnvVars: []string{"RECALL_OWNER"},
			},
			&cli.StringFlag{
				Name:    "ai-host",
				Usage:   "Base URL for the OpenAI-compatible AI service",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"RECALL_AI_HOST"},
			},
			&cli.StringFlag{
				Name:    "api-keys",
				Usage:   "Comma-separated API keys, tried in order on failure",
				EnvVars: []string{ai.CredentialsEnvVar},
			},
			&cli.StringFlag{
				Name:    "generation-model",
				Usage:   "Model used for enrichment and answering",
				Value:   "gemma3:4b",
				EnvVars: []string{"RECALL_GENERATION_MODEL"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Model used for embeddings",
				Value:   "embeddinggemma",
				EnvVars: []string{"RECALL_EMBEDDING_MODEL"},
			},
			&cli.IntFlag{
				Name:    "embedding-dimensions",
				Usage:   "Vector width produced by the embedding model",
				Value:   ai.DefaultEmbeddingDimensions,
				EnvVars: []string{"RECALL_EMBEDDING_DIMENSIONS"},
			},
			&cli.StringFlag{
				Name:    "youtube-api-key",
				Usage:   "YouTube Data API key for video metadata",
				EnvVars: []string{"RECALL_YOUTUBE_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Capture a note, link, video or image into the vault",
				ArgsUsage: "<content or URL>",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Content kind (note, link, video, image, document)",
						Value:   "note",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Title hint passed to extraction",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Description hint passed to extraction",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to an image file to upload",
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Capture one item described as JSON on stdin, result as JSON on stdout",
				Action: ingestCommand,
			},
			{
				Name:      "search",
				Usage:     "Search the vault by meaning and tags",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Restrict results to one content kind",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question grounded in saved content",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
			{
				Name:      "chat",
				Usage:     "Continue a conversation grounded in saved content",
				ArgsUsage: "<message>",
				Action:    chatCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "chat-id",
						Usage:    "Conversation identifier",
						Required: true,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List the most recently saved items",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of items to list",
						Value:   20,
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Bulk-capture notes from a file, one per line",
				ArgsUsage: "<file>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent ingestion workers",
						Value:   4,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openVault(c *cli.Context) (*recall.Vault, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithCredentials(strings.Split(c.String("api-keys"), ",")...),
		ai.WithGenerationModel(c.String("generation-model")),
		ai.WithEmbeddingModel(c.String("embedding-model"), c.Int("embedding-dimensions")),
	)

	return recall.Open(c.String("db"),
		recall.WithAIConfig(aiConfig),
		recall.WithYouTubeAPIKey(c.String("youtube-api-key")),
	)
}

func requireOwner(c *cli.Context) (string, error) {
	owner := strings.TrimSpace(c.String("owner"))
	if owner == "" {
		return "", fmt.Errorf("owner is required (--owner or RECALL_OWNER)")
	}
	return owner, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	if c.NArg() < 1 && c.String("file") == "" {
		return fmt.Errorf("content or URL argument is required")
	}

	kind, err := core.ParseContentKind(c.String("type"))
	if err != nil {
		return err
	}

	req := &extract.Request{
		Kind:        kind,
		Content:     strings.Join(c.Args().Slice(), " "),
		Title:       c.String("title"),
		Description: c.String("description"),
	}

	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		req.Kind = core.ContentKindImage
		req.Data = data
	}

	vault, err := openVault(c)
	if err != nil {
		return err
	}
	defer vault.Close()

	pipeline, err := vault.NewIngestionPipeline()
	if err != nil {
		return err
	}

	item, err := pipeline.Ingest(ctx, owner, req)
	if err != nil {
		return err
	}

	printItem(item)
	return nil
}

// ingestRequest is the wire shape read from stdin by the ingest command.
type ingestRequest struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
}

// ingestResult is the wire shape written to stdout by the ingest command.
type ingestResult struct {
	Success bool       `json:"success"`
	Item    ingestItem `json:"item"`
}

type ingestItem struct {
	Id        core.ID  `json:"id"`
	Kind      string   `json:"kind"`
	SourceURL string   `json:"sourceUrl,omitempty"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	owner, err := requireOwner(c)
	if err != nil {
		return err
	}

	var req ingestRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}

	kind, err := core.ParseContentKind(req.Type)
	if err != nil {
		return err
	}

	vault, err := openVault(c)
	if err != nil {
		return err
	}
	defer vault.Close()

	pipeline, err := vault.NewIngestionPipeline()
	if err != nil {
		return err
	}

	// Browser captures send the page URL separately from any selected text.
	content := req.Content
	if content == "" {
		content = req.SourceURL
	}

	item, err := pipeline.Ingest(ctx, owner, &extract.Request{
		Kind:        kind,
		Content:     content,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(&ingestResult{
		Success: true,
		Item: ingestItem{
			Id:        item.Id,
			Kind:      item.Kind.String(),
			SourceURL: item.SourceURL,
			Title:     item.Title,
			Summary:   item.Summary,
			Tags:      item.Tags,
		},
	})
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	if c.NArg() < 1 {
		return fmt.Errorf("query argument is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	vault, err := openVault(c)
	if err != nil {
		return err
	}
	defer vault.Close()

	searcher, err := vault.NewSearcher()
	if err != nil {
		return err
	}

	var hits []*core.SearchHit
	if kindName := c.String("type"); kindName != "" {
		kind, err := core.ParseContentKind(kindName)
		if err != nil {
			return err
		}
		hits, err = searcher.SearchByKind(ctx, owner, query, kind)
		if err != nil {
			return err
		}
	} else {
		hits, err = searcher.Search(ctx, owner, query)
		if err != nil {
			return err
		}
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, hit := range hits {
		fmt.Printf("[%d] %s (%.2f)\n", hit.Id, hit.Title, hit.Similarity)
		fmt.Printf("    %s\n", hit.Summary)
		if len(hit.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(hit.Tags, ", "))
		}
	}
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	if c.NArg() < 1 {
		return fmt.Errorf("question argument is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	vault, err := openVault(c)
	if err != nil {
		return err
	}
	defer vault.Close()

	answerer, err := vault.NewAnswerer()
	if err != nil {
		return err
	}

	answer, err := answerer.Ask(ctx, owner, question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range answer.Sources {
			fmt.Printf("  [%d] %s\n", src.Id, src.Title)
		}
	}
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	if c.NArg() < 1 {
		return fmt.Errorf("message argument is required")
	}
	message := strings.Join(c.Args().Slice(), " ")
	chatID := core.ID(c.Uint64("chat-id"))

	vault, err := openVault(c)
	if err != nil {
		return err
	}
	defer vault.Close()

	answerer, err := vault.NewAnswerer()
	if err != nil {
		return err
	}

	reply, err := answerer.ChatTurn(ctx, owner, chatID, message)
	if err != nil {
		return err
	}

	fmt.Println(reply.Content)
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	owner, err := requireOwner(c)
	if err != nil {
		return err
	}

	vault, err := openVault(c)
	if err != nil {
		return err
	}
	defer vault.Close()

	items, err := vault.ItemRepository().GetRecentItems(ctx, owner, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("Vault is empty.")
		return nil
	}
	for _, item := range items {
		printItem(item)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	if c.NArg() < 1 {
		return fmt.Errorf("file argument is required")
	}

	workers := c.Int("workers")
	if workers < 1 {
		return fmt.Errorf("workers must be greater than 0")
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	vault, err := openVault(c)
	if err != nil {
		return err
	}
	defer vault.Close()

	pipeline, err := vault.NewIngestionPipeline()
	if err != nil {
		return err
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		imported int
		failed   int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			_, err := pipeline.Ingest(ctx, owner, &extract.Request{
				Kind:    core.ContentKindNote,
				Content: line,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				slog.Error("failed to import line", "err", err)
				return
			}
			imported++
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d items, %d failures\n", imported, failed)
	if failed > 0 {
		return fmt.Errorf("%d items failed to import", failed)
	}
	return nil
}

func printItem(item *core.ContentItem) {
	fmt.Printf("[%d] %s (%s)\n", item.Id, item.Title, item.Kind)
	if item.SourceURL != "" {
		fmt.Printf("    %s\n", item.SourceURL)
	}
	fmt.Printf("    %s\n", item.Summary)
	if len(item.Tags) > 0 {
		fmt.Printf("    tags: %s\n", strings.Join(item.Tags, ", "))
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
