package view

import (
	"html/template"
	"sync"
)

// Surface is the main content container. Every render replaces its content entirely.
type Surface interface {
	Replace(content template.HTML)
}

// MainContainer is an in-memory Surface holding the fragment placed in the page's <main>.
type MainContainer struct {
	mu           sync.Mutex
	content      template.HTML
	replacements int
}

func NewMainContainer() *MainContainer {
	return &MainContainer{}
}

func (m *MainContainer) Replace(content template.HTML) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.content = content
	m.replacements++
}

func (m *MainContainer) Content() template.HTML {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.content
}

// Replacements reports how many times the content was replaced.
func (m *MainContainer) Replacements() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.replacements
}
