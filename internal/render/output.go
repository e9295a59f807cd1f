// Package render holds the single rendered-output surface of the editor: the
// text last produced by a re-derivation cycle, and the gate that decides
// whether that text may be exported.
package render

import (
	"fmt"
	"sync"

	"github.com/pkordes/pfscgen/internal/domain"
)

// Output is the rendered-output surface. It is safe for concurrent use.
type Output struct {
	mu       sync.RWMutex
	text     string
	onRender func(text string)
}

// NewOutput returns an empty Output. onRender, when non-nil, is called with
// every newly rendered text (e.g. to repaint a view).
func NewOutput(onRender func(text string)) *Output {
	return &Output{onRender: onRender}
}

// Render replaces the current text.
func (o *Output) Render(text string) {
	o.mu.Lock()
	o.text = text
	o.mu.Unlock()

	if o.onRender != nil {
		o.onRender(text)
	}
}

// Text returns the current text.
func (o *Output) Text() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.text
}

// Artifact packages the current text as a download. Placeholder and error
// text is refused with domain.ErrNotExportable.
func (o *Output) Artifact() (domain.Export, error) {
	text := o.Text()
	if text == "" || !domain.Exportable(text) {
		return domain.Export{}, fmt.Errorf("render.Output.Artifact: %w", domain.ErrNotExportable)
	}
	return domain.Export{
		Filename:    domain.ExportFilename,
		ContentType: domain.ExportContentType,
		Config:      text,
	}, nil
}
