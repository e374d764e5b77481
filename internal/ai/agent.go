// Package ai is the admin assistant: a Gemini chat that answers questions about the shop
// by calling back into the order, catalog, stock and report services.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafe-pos/internal/auth"
	"cafe-pos/internal/catalog"
	"cafe-pos/internal/inventory"
	"cafe-pos/internal/orders"
	"cafe-pos/internal/reports"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

var ErrDisabled = errors.New("assistant is not configured (GEMINI_API_KEY is empty)")

// maxToolRounds bounds how many times the model may call tools for one question.
const maxToolRounds = 5

const fallbackReply = "I completed the action."

type Agent struct {
	apiKey    string
	model     string
	catalog   *catalog.Store
	inventory *inventory.Store
	reports   *reports.Engine
	orders    *orders.Service
	log       zerolog.Logger
	now       func() time.Time
}

func NewAgent(apiKey, model string, cat *catalog.Store, inv *inventory.Store, rep *reports.Engine, ord *orders.Service, log zerolog.Logger) *Agent {
	return &Agent{
		apiKey:    apiKey,
		model:     model,
		catalog:   cat,
		inventory: inv,
		reports:   rep,
		orders:    ord,
		log:       log.With().Str("component", "ai").Logger(),
		now:       time.Now,
	}
}

func (a *Agent) Enabled() bool { return a != nil && a.apiKey != "" }

func (a *Agent) systemPrompt() string {
	today := a.now().Format("2006-01-02")
	return fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a coffee shop point of sale.
Prices are in USD.

RULES:
1. STOCK: If the user asks about supplies, stock or what needs reordering, call 'check_stock'.
2. MENU: If the user asks about a product's price or details, call 'get_menu' and read the JSON.
   To change a price by NAME, do NOT ask for the ID: call 'get_menu' to find it, then 'update_product_price'.
3. MONEY: For revenue, profit, expenses, salaries or best sellers call 'get_stats' with the timeframe
   (weekly, monthly, yearly or all).
4. ORDERS: For what the kitchen is working on, call 'list_active_orders'.`, today)
}

var tools = []*genai.Tool{
	{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "check_stock",
				Description: "List every stock item with quantity, unit, unit cost and whether it is at or below its reorder threshold.",
			},
			{
				Name:        "get_menu",
				Description: "Get the active menu. Use this to find ANY product details like ID, Name, Price or Category.",
			},
			{
				Name:        "update_product_price",
				Description: "Update the price of a specific product using its ID",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"product_id": {Type: genai.TypeInteger, Description: "ID of the product"},
						"new_price":  {Type: genai.TypeNumber, Description: "New price in USD"},
					},
					Required: []string{"product_id", "new_price"},
				},
			},
			{
				Name:        "get_stats",
				Description: "Get revenue, order count, expenses, salaries, stock value and top products for a timeframe.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"timeframe": {
							Type:        genai.TypeString,
							Description: "Lookback window",
							Enum:        []string{"weekly", "monthly", "yearly", "all"},
						},
					},
				},
			},
			{
				Name:        "list_active_orders",
				Description: "List the orders that are not archived and neither ready nor cancelled.",
			},
		},
	},
}

// Ask runs one question through the model, answering its tool calls until it replies with text.
// actor is who the write tools act on behalf of.
func (a *Agent) Ask(ctx context.Context, actor *auth.Identity, question string) (string, error) {
	if !a.Enabled() {
		return "", ErrDisabled
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(a.systemPrompt()))
	model.Tools = tools

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(question))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}
		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.Debug().Str("tool", call.Name).Interface("args", call.Args).Msg("tool call")
			replies = append(replies, genai.FunctionResponse{
				Name:     call.Name,
				Response: a.dispatch(ctx, actor, call.Name, call.Args),
			})
		}
		if resp, err = session.SendMessage(ctx, replies...); err != nil {
			return "", fmt.Errorf("gemini: %w", err)
		}
	}
	return printResponse(resp), nil
}

// dispatch runs one tool. Failures are reported to the model, not to the caller.
func (a *Agent) dispatch(ctx context.Context, actor *auth.Identity, name string, args map[string]interface{}) map[string]interface{} {
	var (
		result interface{}
		err    error
	)
	switch name {
	case "check_stock":
		result, err = a.inventory.List(ctx)
	case "get_menu":
		result, err = a.catalog.Products(ctx)
	case "update_product_price":
		result, err = a.updatePrice(ctx, actor, args)
	case "get_stats":
		tf, _ := args["timeframe"].(string)
		result, err = a.reports.Compute(ctx, reports.ParseTimeframe(tf))
	case "list_active_orders":
		result, err = a.orders.Active(ctx)
	default:
		err = fmt.Errorf("unknown tool %q", name)
	}
	if err != nil {
		a.log.Warn().Err(err).Str("tool", name).Msg("tool failed")
		return map[string]interface{}{"error": err.Error()}
	}

	// The response must be plain JSON values; structs go over as a JSON string
	payload, err := json.Marshal(result)
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	return map[string]interface{}{"result": string(payload)}
}

func (a *Agent) updatePrice(ctx context.Context, actor *auth.Identity, args map[string]interface{}) (interface{}, error) {
	id, ok := args["product_id"].(float64)
	if !ok {
		return nil, errors.New("product_id is required")
	}
	price, ok := args["new_price"].(float64)
	if !ok || price < 0 {
		return nil, errors.New("new_price must be a non-negative number")
	}

	products, err := a.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == uint(id) {
			p := products[i]
			p.Price = price
			if err := a.catalog.SaveProduct(ctx, actor, &p); err != nil {
				return nil, err
			}
			return map[string]interface{}{"status": "Success", "name": p.Name, "new_price": price}, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if call, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, call)
			}
		}
	}
	return calls
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fallbackReply
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return fallbackReply
	}
	return sb.String()
}
