package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const sessionURIPrefix = "ladder://sessions/"

// LadderSessionResourceTemplate exposes games as readable resources.
func LadderSessionResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "ladder_session",
		Title:       "Ladder game",
		Description: "Readable snapshot of a ladder game. URI format: ladder://sessions/{session_id}",
		MIMEType:    "application/json",
		URITemplate: "ladder://sessions/{session_id}",
	}
}

// LadderSessionResourceHandler reads a game snapshot.
func LadderSessionResourceHandler(sessions Sessions) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if sessions == nil {
			return nil, fmt.Errorf("session registry is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("session ID is required; use URI format ladder://sessions/{session_id}")
		}
		uri := req.Params.URI
		sessionID, err := parseSessionIDFromURI(uri)
		if err != nil {
			return nil, err
		}

		state, err := sessions.Get(sessionID)
		if err != nil {
			return nil, localizeError("", err)
		}
		data, err := json.MarshalIndent(stateResult(state), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

func parseSessionIDFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, sessionURIPrefix) {
		return "", fmt.Errorf("URI must start with %s", sessionURIPrefix)
	}
	sessionID := strings.TrimSpace(strings.TrimPrefix(uri, sessionURIPrefix))
	if sessionID == "" || strings.Contains(sessionID, "/") {
		return "", fmt.Errorf("URI must be ladder://sessions/{session_id}")
	}
	return sessionID, nil
}
