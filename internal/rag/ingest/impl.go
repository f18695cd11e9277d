package ingest

import (
	"encoding/base64"
	"path/filepath"
	"strings"
)

//splitter

// SplitText cuts text into chunks of at most limit characters with the given
// overlap carried between neighbours.
func SplitText(text string, limit int, overlap int) []string {
	var chunks []string

	// If text is already small enough, just return it
	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " ", ""}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		// Hard cut if no separator found (rare)
		return []string{text[:limit]}
	}

	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	for _, part := range parts {
		// A single part can still exceed the limit; recurse so a finer
		// separator gets a chance at it
		if len(part) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
				currentChunk.Reset()
			}
			chunks = append(chunks, SplitText(part, limit, overlap)...)
			continue
		}

		// If adding the part exceeds the limit
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			// Handle overlap: start the next chunk with the end of the previous one
			// (Simple version: take last N chars)
			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}

type DocType string

const (
	PDF   DocType = "pdf"
	DOCX  DocType = "docx"
	PLAIN DocType = "plain"
	ERR   DocType = "err"
)

// textExtensions are written to the temp file as-is; anything else is assumed
// base64 encoded binary.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".json": true,
	".xml":  true,
	".csv":  true,
}

func getDocType(docPath string) DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch {
	case ext == ".pdf":
		return PDF
	case ext == ".docx" || ext == ".odt" || ext == ".rtf":
		return DOCX
	case textExtensions[ext]:
		return PLAIN
	default:
		return ERR
	}
}

func decodeContent(content string, extension string) []byte {
	if textExtensions[strings.ToLower(extension)] {
		return []byte(content)
	}

	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		// Not base64 after all, keep the raw text
		logger.Warn("Content for binary extension is not base64, storing as text", "extension", extension)
		return []byte(content)
	}
	return decoded
}
