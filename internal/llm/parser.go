package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const systemPrompt = "You classify payee names from financial records as either a Business or an Individual. Respond with JSON only."

var errNoClassification = errors.New("no classification found in response")

func buildClassificationPrompt(name string) string {
	var b strings.Builder
	b.WriteString("Classify the following payee name as \"Business\" or \"Individual\".\n\n")
	fmt.Fprintf(&b, "Payee: %s\n\n", name)
	b.WriteString("Government agencies, banks, utilities, insurers and non-profits count as Business. ")
	b.WriteString("When the payee is a Business, include its 4-digit SIC code and description if you can determine them.\n\n")
	b.WriteString("Respond with a single JSON object:\n")
	b.WriteString(`{"classification": "Business" or "Individual", "confidence": 0-100, "reasoning": "one sentence", "sicCode": "", "sicDescription": ""}`)
	return b.String()
}

// cleanMarkdownWrapper strips a fenced code block around a JSON reply and
// any prose before the first brace.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```JSON")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	return content
}

// parseClassification decodes a provider reply into a ClassificationResponse.
func parseClassification(content string) (ClassificationResponse, error) {
	var resp ClassificationResponse
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &resp); err != nil {
		return ClassificationResponse{}, parseError(fmt.Errorf("failed to parse JSON response: %w", err))
	}

	if strings.TrimSpace(resp.Classification) == "" {
		return ClassificationResponse{}, parseError(errNoClassification)
	}

	return resp, nil
}
