package provider

import "fmt"

// SystemPrompt is sent with every benchmark query. Asking for direct library
// names keeps mention detection meaningful across providers.
const SystemPrompt = "You are a helpful assistant. Answer with concise bullets and include direct library names."

const userPromptTemplate = "Query: %s\nList relevant libraries/tools with a short rationale for each in bullet points."

// UserPrompt renders the benchmark query into the shared prompt template.
// Parameters:
//   - query: the benchmark query text.
// Returns:
//   - string: prompt sent as the user message.
func UserPrompt(query string) string {
	return fmt.Sprintf(userPromptTemplate, query)
}
