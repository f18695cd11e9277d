package classify

import (
	"fmt"
	"strings"

	"github.com/akolanti/DocStoreAPI/internal/registry"
)

const systemInstruction = `You are a document preprocessing assistant for a personal career document store.

Given a document you must produce, in one pass:
1. collection_type: exactly one of the collection types listed below.
2. renamed_filename: a short descriptive filename for the document (no directories).
3. description: one or two sentences describing what the document is.
4. abstract: a concise summary of the document, at most 100 words.
5. cleaned_content: the full document text with boilerplate, broken formatting and extraction noise removed. Do not summarise or drop substantive content.
6. metadata: an object with the fields listed for the chosen collection. Fill every required field, add optional fields when the document supports them, and omit fields you cannot determine.

Respond with a single JSON object holding exactly the keys renamed_filename, description, abstract, cleaned_content, collection_type and metadata. No markdown fences, no commentary.

Available collections:
%s`

const userTemplate = `Original filename: %s

Document content:
%s`

func buildSystemPrompt() string {
	var b strings.Builder
	for _, def := range registry.All() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", def.Type, def.Description))
		if len(def.RequiredMetaFields) > 0 {
			b.WriteString(fmt.Sprintf("  required metadata: %s\n", strings.Join(def.RequiredMetaFields, ", ")))
		}
		if len(def.OptionalMetaFields) > 0 {
			b.WriteString(fmt.Sprintf("  optional metadata: %s\n", strings.Join(def.OptionalMetaFields, ", ")))
		}
	}
	return fmt.Sprintf(systemInstruction, b.String())
}

func buildUserPrompt(content string, filename string) string {
	if filename == "" {
		filename = "unknown"
	}
	return fmt.Sprintf(userTemplate, filename, content)
}
