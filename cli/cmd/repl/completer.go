package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/rogeriochaves/rubber/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// previewLimit caps the rendered length of a binding preview.
const previewLimit = 40

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace, grouping characters, and the notation's
// operators. The backslash is intentionally excluded because it introduces
// control sequences (e.g., \frac, \sum_) and must remain part of the word
// being completed.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '{', '}',
		'+', '-', '*', '/', '^',
		'=', ',', '_':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Words are delimited by whitespace, grouping
// characters, and operators.
// Returns an empty word when the cursor sits on a boundary (after a space,
// inside an empty brace group, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// symbolCandidates returns every control sequence name with its leading
// backslash, so that completing one inserts valid notation.
func symbolCandidates() []string {
	symbols := lang.Symbols()

	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = `\` + s
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. A word starting with a backslash completes against the control
// sequences; any other word completes against the names defined in the scope.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	switch {
	case m.mode == modeCtrl:
		candidates = ctrlCommands
	case strings.HasPrefix(word, `\`):
		candidates = symbolCandidates()
	default:
		candidates = m.scope.Names()
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		// If this is the last candidate, no need to reserve ellipsis space.
		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Control sequences are displayed with a "{}" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	// Add "{}" suffix for control sequences (not applied to the actual
	// completion)
	if isControlSequence(match.Str) {
		b.WriteString(baseStyle.Render("{}"))
	}

	return b.String()
}

// isControlSequence checks if a candidate is a control sequence that should
// display with a brace-group suffix.
func isControlSequence(name string) bool {
	return strings.HasPrefix(name, `\`)
}

// previewBinding generates a short preview of the binding for name,
// shaped to follow the name in a listing: "(x) = x * a" for a function,
// "= 3" or "= (1, 2)" for a value.
func previewBinding(scope *lang.Scope, name string) string {
	if fn, ok := scope.Function(name); ok {
		decl := lang.NewDoubleArity(
			lang.OpAssignment,
			lang.NewVariable(lang.Scalar(name)),
			fn,
		)

		return ellipsize(strings.TrimPrefix(decl.String(), name), previewLimit)
	}

	if v, ok := scope.Lookup(name); ok {
		return ellipsize("= "+v.String(), previewLimit)
	}

	return ""
}

// ellipsize truncates s to at most limit bytes, marking the cut.
func ellipsize(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit-3] + "..."
}
