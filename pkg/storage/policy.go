package storage

import "sort"

// ExtensionPolicy is an allow-list of lower-case file extensions.
type ExtensionPolicy struct {
	allowed map[string]struct{}
}

// NewExtensionPolicy builds a policy from extensions without the leading dot.
func NewExtensionPolicy(exts ...string) ExtensionPolicy {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[ext] = struct{}{}
	}
	return ExtensionPolicy{allowed: allowed}
}

var (
	// NotePolicy covers lecture notes and slides.
	NotePolicy = NewExtensionPolicy("pdf", "doc", "docx", "ppt", "pptx", "txt")
	// QuestionPaperPolicy covers exam papers.
	QuestionPaperPolicy = NewExtensionPolicy("pdf", "doc", "docx")
)

// Allows reports whether ext is permitted.
func (p ExtensionPolicy) Allows(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := p.allowed[ext]
	return ok
}

// Extensions returns the sorted allow-list.
func (p ExtensionPolicy) Extensions() []string {
	out := make([]string, 0, len(p.allowed))
	for ext := range p.allowed {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
