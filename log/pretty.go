package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles for colorized output. Rendering adapts to the terminal color
// profile, so non-TTY writers receive plain text.
var (
	styleKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleString = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTrue   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleTime   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleSpan   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// levelStyle returns the style for a level name by severity.
func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styleFalse
	case level >= slog.LevelWarn:
		return styleNumber
	case level >= slog.LevelInfo:
		return styleTrue
	default:
		return styleTime
	}
}

// prettyTextHandler is a colorized single-line text handler.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	clock  FormatTime
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	clock FormatTime,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:  *opts,
		clock: clock,
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if stamp := h.clock(r.Time); stamp != "" {
			h.writeKey(buf, slog.TimeKey)
			buf.WriteString(styleTime.Render(stamp))
		}
	}

	h.writeKey(buf, slog.LevelKey)
	buf.WriteString(
		levelStyle(r.Level).Render(strings.ToUpper(Level(r.Level).String())),
	)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeKey(buf, slog.SourceKey)
			buf.WriteString(styleString.Render(
				src.File + ":" + strconv.Itoa(src.Line),
			))
		}
	}

	h.writeAttr(buf, slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// writeKey writes a separating space, the key in the key style, and "=".
// Keys of open groups are joined with dots, matching slog's text handler.
func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	buf.WriteString(styleKey.Render(key))
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	h.writeKey(buf, a.Key)
	writeValue(buf, a.Value.Resolve())
}

// writeValue writes a value colored by kind without quoting.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(styleString.Render(v.String()))

	case slog.KindInt64:
		buf.WriteString(styleNumber.Render(
			strconv.FormatInt(v.Int64(), 10),
		))

	case slog.KindUint64:
		buf.WriteString(styleNumber.Render(
			strconv.FormatUint(v.Uint64(), 10),
		))

	case slog.KindFloat64:
		buf.WriteString(styleNumber.Render(
			strconv.FormatFloat(v.Float64(), 'g', -1, 64),
		))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(styleTrue.Render("true"))
		} else {
			buf.WriteString(styleFalse.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(styleSpan.Render(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(styleTime.Render(v.Time().String()))

	default:
		buf.WriteString(styleString.Render(v.String()))
	}
}

// prettyJSONHandler is a colorized multiline JSON-shaped handler.
// Output is meant for humans; values are not quoted or escaped.
type prettyJSONHandler struct {
	opts   slog.HandlerOptions
	clock  FormatTime
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyJSONHandler(
	w io.Writer,
	clock FormatTime,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts:  *opts,
		clock: clock,
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	first := true

	if !r.Time.IsZero() {
		if stamp := h.clock(r.Time); stamp != "" {
			h.writeField(buf, slog.TimeKey, styleTime.Render(stamp), &first)
		}
	}

	h.writeField(
		buf,
		slog.LevelKey,
		levelStyle(r.Level).Render(strings.ToUpper(Level(r.Level).String())),
		&first,
	)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeField(
				buf,
				slog.SourceKey,
				styleString.Render(src.File+":"+strconv.Itoa(src.Line)),
				&first,
			)
		}
	}

	h.writeField(
		buf,
		slog.MessageKey,
		styleString.Render(r.Message),
		&first,
	)

	for _, a := range h.attrs {
		h.writeAttr(buf, a, &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a, &first)

		return true
	})

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyJSONHandler) writeAttr(
	buf *bytes.Buffer,
	a slog.Attr,
	first *bool,
) {
	val := new(bytes.Buffer)
	writeValue(val, a.Value.Resolve())
	h.writeField(buf, a.Key, val.String(), first)
}

// writeField writes an indented "key: value" line, comma-separating fields.
func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key, rendered string,
	first *bool,
) {
	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	fmt.Fprintf(buf, "  %s: %s", styleKey.Render(key), rendered)
}
