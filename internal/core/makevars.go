package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

var assignmentPattern = regexp.MustCompile(`^\s*(\w+)\s*([+?:]?)=\s*(.*)$`)

// MakeVars is the ordered set of variables assigned by a bmake Makefile.
//
// Only assignment and ${NAME} expansion are understood. Every other line
// of the Makefile is ignored. Variables referenced through an expansion
// are recorded as substituted: they count as consumed for AllPopped
// without having to be popped themselves.
type MakeVars struct {
	names       []string
	values      map[string][]string
	substituted map[string]struct{}
}

func NewMakeVars() *MakeVars {
	return &MakeVars{
		values:      map[string][]string{},
		substituted: map[string]struct{}{},
	}
}

// ParseMakeVars reads the assignments of a Makefile. Comments run from
// the first '#' to the end of the line and a trailing '\' joins the next
// physical line. Lines that are not assignments are skipped.
func ParseMakeVars(text string) *MakeVars {
	vars := NewMakeVars()
	for _, line := range logicalLines(text) {
		match := assignmentPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name, op, values := match[1], match[2], strings.Fields(match[3])
		switch op {
		case "+":
			vars.Extend(name, values)
		case "?":
			vars.Add(name, values)
		case ":":
			expanded := vars.expandTokens(values, map[string]bool{})
			for i, token := range expanded {
				expanded[i] = EscapeToken(token)
			}
			vars.Set(name, expanded)
		default:
			vars.Set(name, values)
		}
	}
	return vars
}

func logicalLines(text string) []string {
	var lines []string
	var pending []string
	for _, raw := range strings.Split(text, "\n") {
		line := raw
		if idx := commentStart(line); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimRight(line, " \t\r")
		if continued(line) {
			pending = append(pending, line[:len(line)-1])
			continue
		}
		pending = append(pending, line)
		lines = append(lines, strings.Join(pending, " "))
		pending = nil
	}
	if len(pending) > 0 {
		lines = append(lines, strings.Join(pending, " "))
	}
	return lines
}

// commentStart returns the index of the first '#' not escaped as "\#".
func commentStart(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] == '#' && (i == 0 || line[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// continued reports whether line ends in an odd number of backslashes.
func continued(line string) bool {
	return trailingBackslashes(line)%2 == 1
}

// EscapeToken quotes a literal value for a Makefile: '#' would start a
// comment, a '$' not opening a reference such as ${X} or $@ would expand,
// and a trailing '\' would join the next line.
func EscapeToken(token string) string {
	if !strings.ContainsAny(token, "#$\\") {
		return token
	}
	var b strings.Builder
	for i := 0; i < len(token); i++ {
		switch c := token[i]; {
		case c == '#':
			b.WriteString("\\#")
		case c == '$' && (i+1 == len(token) || !strings.ContainsRune("{(@<*^?", rune(token[i+1]))):
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString(strings.Repeat("\\", trailingBackslashes(token)))
	return b.String()
}

// UnescapeToken reverses EscapeToken. An odd run of trailing
// backslashes is kept as written.
func UnescapeToken(token string) string {
	if !strings.ContainsAny(token, "$\\") {
		return token
	}
	run := trailingBackslashes(token)
	body := token[:len(token)-run]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if i+1 < len(body) && ((c == '\\' && body[i+1] == '#') || (c == '$' && body[i+1] == '$')) {
			b.WriteByte(body[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	if run%2 == 0 {
		run /= 2
	}
	b.WriteString(strings.Repeat("\\", run))
	return b.String()
}

func trailingBackslashes(s string) int {
	n := 0
	for n < len(s) && s[len(s)-1-n] == '\\' {
		n++
	}
	return n
}

// Has reports whether name is assigned.
func (m *MakeVars) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Set assigns values to name, replacing any previous value.
func (m *MakeVars) Set(name string, values []string) {
	if !m.Has(name) {
		m.names = append(m.names, name)
	}
	m.values[name] = append([]string(nil), values...)
}

// Add assigns values to name only when name is not assigned yet.
func (m *MakeVars) Add(name string, values []string) {
	if !m.Has(name) {
		m.Set(name, values)
	}
}

// Extend appends values to name, assigning it when absent.
func (m *MakeVars) Extend(name string, values []string) {
	if !m.Has(name) {
		m.Set(name, values)
		return
	}
	m.values[name] = append(m.values[name], values...)
}

// Get returns the expanded tokens of name. A token of the form ${X} is
// replaced by the expansion of X when X is assigned; unknown references
// and references back into a variable that is still being expanded stay
// literal. Escaped characters of literal tokens are unquoted.
func (m *MakeVars) Get(name string) ([]string, bool) {
	if !m.Has(name) {
		return nil, false
	}
	return m.expandTokens(m.values[name], map[string]bool{name: true}), true
}

func (m *MakeVars) expandTokens(tokens []string, active map[string]bool) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		ref, ok := reference(token)
		if !ok || !m.Has(ref) || active[ref] {
			out = append(out, UnescapeToken(token))
			continue
		}
		active[ref] = true
		out = append(out, m.expandTokens(m.values[ref], active)...)
		delete(active, ref)
		m.substituted[ref] = struct{}{}
	}
	return out
}

func reference(token string) (string, bool) {
	if len(token) < 4 || !strings.HasPrefix(token, "${") || !strings.HasSuffix(token, "}") {
		return "", false
	}
	name := token[2 : len(token)-1]
	if strings.ContainsAny(name, "${}") {
		return "", false
	}
	return name, true
}

// Pop removes name and returns its expanded tokens.
func (m *MakeVars) Pop(name string) ([]string, error) {
	values, ok := m.Get(name)
	if !ok {
		return nil, missingVariable(name)
	}
	m.remove(name)
	return values, nil
}

func missingVariable(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("missing required variable: %s", name))
}

// PopDefault is Pop returning def when name is not assigned.
func (m *MakeVars) PopDefault(name string, def []string) []string {
	if !m.Has(name) {
		return def
	}
	values, _ := m.Pop(name)
	return values
}

// PopValue removes name and returns it as one string. Without combine
// the variable must hold exactly one token; with combine the tokens are
// joined by single spaces.
func (m *MakeVars) PopValue(name string, combine bool) (string, error) {
	values, ok := m.Get(name)
	if !ok {
		return "", missingVariable(name)
	}
	if !combine && len(values) != 1 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("variable %s holds %d values, expected one", name, len(values)))
	}
	m.remove(name)
	return strings.Join(values, " "), nil
}

// PopOptionalValue is PopValue reporting false when name is not assigned.
func (m *MakeVars) PopOptionalValue(name string, combine bool) (string, bool, error) {
	if !m.Has(name) {
		return "", false, nil
	}
	value, err := m.PopValue(name, combine)
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (m *MakeVars) remove(name string) {
	delete(m.values, name)
	delete(m.substituted, name)
	for i, existing := range m.names {
		if existing == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

// AllPopped reports whether every remaining variable has been consumed
// through expansion.
func (m *MakeVars) AllPopped() bool {
	for _, name := range m.names {
		if _, ok := m.substituted[name]; !ok {
			return false
		}
	}
	return true
}

// Names returns the remaining variables that were never substituted, in
// assignment order.
func (m *MakeVars) Names() []string {
	var names []string
	for _, name := range m.names {
		if _, ok := m.substituted[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

func (m *MakeVars) String() string {
	parts := make([]string, 0, len(m.names))
	for _, name := range m.Names() {
		parts = append(parts, fmt.Sprintf("%s=[%s]", name, strings.Join(m.values[name], " ")))
	}
	return strings.Join(parts, ", ")
}
