package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rendis/flowtree/internal/converter"
	"github.com/rendis/flowtree/internal/loader"
	"github.com/rendis/flowtree/pkg/schema"
)

// --- Tool definitions ---

func convertTool() mcp.Tool {
	return mcp.NewTool("flowtree.convert",
		mcp.WithDescription("Convert a process document into a nested execution tree plus node metadata"),
		mcp.WithObject("document", mcp.Required(), mcp.Description("Process document (nodes + edges), JSON object form")),
		mcp.WithBoolean("strict_joins", mcp.Description("Fail when a split branch dead-ends before its join (default: false)")),
	)
}

func validateTool() mcp.Tool {
	return mcp.NewTool("flowtree.validate",
		mcp.WithDescription("Validate a process document without converting it"),
		mcp.WithObject("document", mcp.Required(), mcp.Description("Process document (nodes + edges), JSON object form")),
	)
}

func queryTool() mcp.Tool {
	return mcp.NewTool("flowtree.query",
		mcp.WithDescription("Run a jq expression over the result of a previous conversion"),
		mcp.WithString("conversion_id", mcp.Required(), mcp.Description("ID returned by flowtree.convert")),
		mcp.WithString("expression", mcp.Required(), mcp.Description("jq expression evaluated against {tree, info}")),
	)
}

// --- Handlers ---

// convertResponse is the payload returned by flowtree.convert.
type convertResponse struct {
	ConversionID string                `json:"conversion_id"`
	Tree         schema.Group          `json:"tree"`
	Info         *schema.NodeInfoTable `json:"info"`
}

// handleConvert decodes, validates, and converts a process document.
func (s *FlowtreeServer) handleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := mcp.ParseStringMap(req, "document", nil)
	if doc == nil {
		return mcp.NewToolResultError("document is required"), nil
	}

	graph, err := s.decodeDocument(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid process document: %v", err)), nil
	}

	var opts []converter.Option
	if req.GetBool("strict_joins", false) {
		opts = append(opts, converter.WithStrictJoins())
	}
	opts = append(opts, converter.WithLogger(s.logger))

	tree, err := converter.Convert(graph, opts...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversion failed: %v", err)), nil
	}

	id := uuid.New().String()
	s.results.Put(id, tree)

	s.logger.Info("process converted",
		"process_id", graph.ID,
		"conversion_id", id,
		"nodes_recorded", tree.Info.Len())

	return marshalResult(convertResponse{
		ConversionID: id,
		Tree:         tree.Root,
		Info:         tree.Info,
	})
}

// handleValidate lints a process document and returns the aggregated result.
func (s *FlowtreeServer) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := mcp.ParseStringMap(req, "document", nil)
	if doc == nil {
		return mcp.NewToolResultError("document is required"), nil
	}

	// Structural failures become a result, not a transport error: the tool's
	// whole purpose is reporting what is wrong.
	if err := s.validator.ValidateDocument(doc); err != nil {
		result := &schema.ValidationResult{}
		result.AddError("/", schema.ErrCodeValidation, err.Error())
		return marshalResult(result)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("serialize document: %v", err)), nil
	}
	var graph schema.ProcessGraph
	if err := json.Unmarshal(raw, &graph); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode document: %v", err)), nil
	}

	return marshalResult(s.validator.Validate(&graph))
}

// handleQuery evaluates a jq expression against a stored conversion result.
func (s *FlowtreeServer) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversionID, err := req.RequireString("conversion_id")
	if err != nil {
		return mcp.NewToolResultError("conversion_id is required"), nil
	}
	expression, err := req.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError("expression is required"), nil
	}

	tree, ok := s.results.Get(conversionID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown conversion id %q", conversionID)), nil
	}

	// Round-trip through JSON so jq sees plain maps and slices.
	raw, err := json.Marshal(tree)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("serialize conversion: %v", err)), nil
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decode conversion: %v", err)), nil
	}

	out, err := s.jq.Evaluate(ctx, expression, data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	return marshalResult(out)
}

// decodeDocument runs a document map through the loader, reusing its
// structural and semantic pipeline.
func (s *FlowtreeServer) decodeDocument(doc map[string]any) (*schema.ProcessGraph, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return s.loader.Load(bytes.NewReader(raw), loader.FormatJSON)
}

// marshalResult renders v as an indented JSON tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
