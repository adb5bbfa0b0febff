// Copyright © 2026 One Concern

package model

import "encoding/json"

// RetrieveResult is the org CLI response to a retrieve invocation
type RetrieveResult struct {
	ID             string          `json:"id,omitempty"`
	Status         string          `json:"status,omitempty"`
	Done           bool            `json:"done,omitempty"`
	Success        bool            `json:"success,omitempty"`
	FileProperties json.RawMessage `json:"fileProperties,omitempty"`
	Messages       json.RawMessage `json:"messages,omitempty"`
}
