package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Service holds the Gemini client and the read-only database connection the
// model is allowed to query.
type Service struct {
	Client *genai.Client
	DB     *sql.DB
	log    *zap.Logger
}

// NewService initializes the Gemini client against the provided API key. The
// database handle must be a read-only pool; the SQL tool refuses mutating
// statements but the connection's grants are the real boundary.
func NewService(apiKey string, dbReadOnly *sql.DB, log *zap.Logger) (*Service, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Client: client, DB: dbReadOnly, log: log}, nil
}

// GenerateResponse answers one user message, letting the model run read-only
// SQL against the inventory database via the run_readonly_sql tool. Returns
// the final text, the total token count, and any error.
func (s *Service) GenerateResponse(ctx context.Context, userMessage string, modelName string) (string, int, error) {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := s.Client.GenerativeModel(modelName)

	sqlTool := &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "run_readonly_sql",
				Description: "Executes a READ-ONLY SQL query (SELECT only) to answer questions about the inventory.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "The MySQL SELECT query to execute.",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
	model.Tools = []*genai.Tool{sqlTool}

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(`
			You are the inventory assistant for a makerspace management system.
			Access: MySQL database (run_readonly_sql).
			Schema: %s
			Rules: SELECT only. Be concise. Items with deleted = TRUE are removed
			from the inventory and must be excluded unless the user asks about
			deleted items. An item is a consumable when a consumables row exists
			for it; otherwise it is a unique asset tracked by its latest
			item_records row (loaned = TRUE means checked out).
		`, s.getSchemaDefinition()))},
	}

	cs := model.StartChat()
	res, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", 0, fmt.Errorf("error sending message: %w", err)
	}

	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens += int(res.UsageMetadata.TotalTokenCount)
	}

	for {
		if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
			return "No response.", totalTokens, nil
		}
		part := res.Candidates[0].Content.Parts[0]

		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			return fmt.Sprintf("%v", part), totalTokens, nil
		}

		if funcCall.Name != "run_readonly_sql" {
			return "", totalTokens, fmt.Errorf("unknown function: %s", funcCall.Name)
		}

		query, ok := funcCall.Args["query"].(string)
		if !ok {
			return "", totalTokens, fmt.Errorf("invalid query argument")
		}
		s.log.Info("assistant running sql", zap.String("query", query))

		sqlResult, sqlErr := s.runReadOnlyQuery(ctx, query)
		if sqlErr != nil {
			sqlResult = fmt.Sprintf("SQL Error: %v", sqlErr)
		}

		res, err = cs.SendMessage(ctx, genai.FunctionResponse{
			Name:     "run_readonly_sql",
			Response: map[string]interface{}{"result": sqlResult},
		})
		if err != nil {
			return "", totalTokens, fmt.Errorf("tool response error: %w", err)
		}
		if res.UsageMetadata != nil {
			totalTokens = int(res.UsageMetadata.TotalTokenCount)
		}
	}
}

// runReadOnlyQuery executes a model-authored SELECT and renders the result
// set as JSON rows for the tool response.
func (s *Service) runReadOnlyQuery(ctx context.Context, query string) (string, error) {
	normalized := strings.ToUpper(query)
	for _, keyword := range []string{"UPDATE", "DELETE", "DROP", "INSERT", "ALTER", "TRUNCATE"} {
		if strings.Contains(normalized, keyword) {
			return "", fmt.Errorf("security violation: modify operations are not allowed")
		}
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}
	count := len(columns)

	tableData := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, count)
		valuePtrs := make([]interface{}, count)
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return "", err
		}
		entry := make(map[string]interface{})
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				entry[col] = string(b)
			} else {
				entry[col] = values[i]
			}
		}
		tableData = append(tableData, entry)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	jsonData, err := json.Marshal(tableData)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (s *Service) getSchemaDefinition() string {
	return `
	- users (id, name, email, email_verified, group_id, created_at)
	- groups (id, name, parent_id)
	- locations (id, name, parent_id) [tree: parent_id chains up to a root]
	- tag_groups (id, name, parent_id) [tree]
	- tags (id, name, type, colour, tag_group_id)
	- items (id, serial, name, location_id, stored, cost, deleted, created_at, updated_at)
	- item_tags (item_id, tag_id)
	- consumables (item_id, available, total) [present only for consumable items]
	- item_records (id, item_id, action_by_user_id, loaned, quantity, notes, created_at) [audit trail; latest row per item is its current state]
	- printers (id, name, type [PRUSA, BAMBU], ip_address, serial_number, created_by_user_id)
	- gcode_print_jobs (id, user_id, printer_id, original_filename, file_size_bytes, status [STORED, DISPATCHED, DISPATCH_FAILED], created_at)
	- ai_chat_history (id, user_id, user_message, ai_response, tokens_used, created_at)
	`
}
