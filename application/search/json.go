package search

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeLooseJSON parses model output as JSON. When strict parsing fails it
// retries on the substring between the first '{' and the last '}', which
// recovers objects wrapped in prose or code fences.
func DecodeLooseJSON(content string, v interface{}) error {
	content = strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(content), v); err == nil {
		return nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in content")
	}
	return json.Unmarshal([]byte(content[start:end+1]), v)
}
