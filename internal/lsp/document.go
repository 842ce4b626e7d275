package lsp

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/funvibe/rootscope/internal/frontend"
	"github.com/funvibe/rootscope/internal/modules"
	"github.com/funvibe/rootscope/internal/pipeline"
	"github.com/funvibe/rootscope/internal/symbols"
	"github.com/funvibe/rootscope/internal/utils"
)

type document struct {
	uri    protocol.DocumentUri
	text   string
	result *frontend.Result
	loader *modules.Loader
	err    error
}

// analyze resolves text in a fresh compilation unit. Imports are loaded
// from the document's directory; an unnamed script takes its file name.
func analyze(uri protocol.DocumentUri, text string, builtins []string) *document {
	ctx := pipeline.NewPipelineContext(utils.URIToPath(string(uri)), []byte(text))
	ctx.Builtins = builtins
	ctx = pipeline.New(&pipeline.ParseProcessor{}, &pipeline.ResolveProcessor{}).Run(ctx)

	doc := &document{uri: uri, text: text, result: ctx.Result, loader: ctx.Loader}
	if ctx.Failed() {
		doc.err = ctx.Errors[0]
		doc.loader = nil
	}
	return doc
}

func (d *document) diagnostics() []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if d.err != nil {
		line := 0
		var se *frontend.ScriptError
		if errors.As(d.err, &se) {
			line = se.Line
		}
		diagnostics = append(diagnostics, diagnostic(line, protocol.DiagnosticSeverityError, d.err.Error()))
		return diagnostics
	}
	for _, ref := range d.result.Unresolved() {
		diagnostics = append(diagnostics, diagnostic(ref.Line, protocol.DiagnosticSeverityWarning,
			fmt.Sprintf("undefined name %s", ref.Name)))
	}
	return diagnostics
}

// diagnostic builds a whole-line diagnostic; line is 1-based, 0 when unknown.
func diagnostic(line int, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	l := protocol.UInteger(max(line-1, 0))
	source := lspName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: l, Character: 0},
			End:   protocol.Position{Line: l + 1, Character: 0},
		},
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}

// complete offers public names. "mod.pre" completes the exports of an
// imported module, a bare prefix the document's own public names.
func (d *document) complete(prefix string, limit int) []protocol.CompletionItem {
	if d.result == nil {
		return nil
	}
	scope := d.result.Module.Scope
	detail := "public"
	if i := strings.LastIndexByte(prefix, '.'); i >= 0 {
		mod, ok := d.loader.ModulesByName[prefix[:i]]
		if !ok {
			return nil
		}
		scope, prefix, detail = mod.Scope, prefix[i+1:], mod.Name
	}
	return completionItems(scope, prefix, limit, detail)
}

func completionItems(scope *symbols.Scope, prefix string, limit int, detail string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for name := range scope.Completions(prefix, limit).All() {
		kind := protocol.CompletionItemKindVariable
		d, nameCopy := detail, name
		items = append(items, protocol.CompletionItem{
			Label:      name,
			Kind:       &kind,
			Detail:     &d,
			InsertText: &nameCopy,
		})
	}
	return items
}

// hover describes how the use of the word under the cursor resolved.
func (d *document) hover(pos protocol.Position) *protocol.Hover {
	if d.result == nil {
		return nil
	}
	word := extractWord(d.text, pos)
	if word == "" {
		return nil
	}
	for _, ref := range d.result.References {
		if ref.Line != int(pos.Line)+1 || ref.Name != word {
			continue
		}
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: describe(ref),
			},
		}
	}
	return nil
}

func describe(ref frontend.Reference) string {
	switch {
	case !ref.Found:
		return fmt.Sprintf("`%s` is undefined", ref.Name)
	case ref.Global:
		return fmt.Sprintf("`%s` (symbol %d): global slot %d", ref.Name, ref.ID, ref.Slot)
	case ref.Capture >= 0:
		return fmt.Sprintf("`%s` (symbol %d): capture %d of %s", ref.Name, ref.ID, ref.Capture, ref.Function)
	default:
		return fmt.Sprintf("`%s` (symbol %d): local slot %d of %s", ref.Name, ref.ID, ref.Slot, ref.Function)
	}
}

func isNameChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '!'
}

func lineAt(text string, pos protocol.Position) (string, int, bool) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return "", 0, false
	}
	line := lines[pos.Line]
	return line, min(int(pos.Character), len(line)), true
}

// extractPrefix returns the (possibly module-qualified) name fragment
// before the cursor.
func extractPrefix(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}
	start := col
	for start > 0 {
		ch := rune(line[start-1])
		if !isNameChar(ch) && ch != '.' {
			break
		}
		start--
	}
	return line[start:col]
}

// extractWord returns the name under the cursor.
func extractWord(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}
	start, end := col, col
	for start > 0 && isNameChar(rune(line[start-1])) {
		start--
	}
	for end < len(line) && isNameChar(rune(line[end])) {
		end++
	}
	return line[start:end]
}
