package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docforge/internal/config"
	"docforge/internal/models"
)

const (
	notionAPIBase   = "https://api.notion.com/v1"
	notionMaxBlocks = 100
	notionMaxText   = 2000
)

// NotionService publishes compiled documents as pages in a Notion database.
type NotionService struct {
	token   string
	version string
	enabled bool
	client  *http.Client
}

func NewNotionService(cfg config.NotionConfig) *NotionService {
	return &NotionService{
		token:   cfg.Token,
		version: cfg.Version,
		enabled: cfg.Enabled,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish creates a Notion page for the compiled document inside the given
// database. The document content is mapped line by line onto Notion blocks:
// headings, dividers, and paragraphs.
func (s *NotionService) Publish(ctx context.Context, databaseID string, doc *models.CompiledDocument) error {
	if !s.enabled {
		return ErrPublishDisabled
	}

	payload := map[string]any{
		"parent": map[string]string{"database_id": databaseID},
		"properties": map[string]any{
			"Name": map[string]any{
				"title": []any{textBlock(doc.DocTitle)},
			},
		},
		"children": contentBlocks(doc.CompiledContent),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notion page: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notionAPIBase+"/pages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Notion-Version", s.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notion returned status %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

// contentBlocks maps document lines onto Notion blocks, capped at the API's
// per-request block limit.
func contentBlocks(content string) []any {
	var blocks []any
	for _, line := range strings.Split(content, "\n") {
		if len(blocks) >= notionMaxBlocks {
			break
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case trimmed == "---":
			blocks = append(blocks, map[string]any{
				"object":  "block",
				"type":    "divider",
				"divider": map[string]any{},
			})
		case strings.HasPrefix(trimmed, "## "):
			blocks = append(blocks, map[string]any{
				"object": "block",
				"type":   "heading_2",
				"heading_2": map[string]any{
					"rich_text": []any{textBlock(strings.TrimPrefix(trimmed, "## "))},
				},
			})
		default:
			blocks = append(blocks, map[string]any{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": []any{textBlock(trimmed)},
				},
			})
		}
	}
	return blocks
}

func textBlock(text string) map[string]any {
	if len(text) > notionMaxText {
		text = text[:notionMaxText]
	}
	return map[string]any{
		"type": "text",
		"text": map[string]string{"content": text},
	}
}
