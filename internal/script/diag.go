package script

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Exception is a trapped script failure with its source location.
type Exception struct {
	File    string // Chunk name, empty when unknown
	Line    int    // 1-based, 0 when unknown
	Column  int    // 1-based, 0 when unknown
	Token   string // Offending token for syntax errors
	Message string
	Source  string // Offending source line
	Trace   string // Lua traceback, if any
}

func (e *Exception) Error() string {
	if e.File == "" {
		return e.Message
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

// Where returns "file:line" or "?" when the location is unknown.
func (e *Exception) Where() string {
	if e.File == "" {
		return "?"
	}
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}

// Snippet renders the offending line with a caret span underneath. Syntax
// errors point at the token; runtime errors underline the whole statement.
func (e *Exception) Snippet() string {
	if e.Source == "" {
		return ""
	}
	src := strings.ReplaceAll(e.Source, "\t", "    ")
	gutter := strconv.Itoa(e.Line) + " | "
	pad := strings.Repeat(" ", len(gutter)-2) + "| "

	var start, width int
	if e.Column > 0 {
		width = max(len(e.Token), 1)
		start = min(e.Column-1, len(src))
	} else {
		trimmed := strings.TrimLeft(src, " ")
		start = len(src) - len(trimmed)
		width = max(len(strings.TrimRight(trimmed, " ")), 1)
	}

	return gutter + src + "\n" + pad + strings.Repeat(" ", start) + strings.Repeat("^", width)
}

var (
	runtimeErrRe = regexp.MustCompile(`(?s)^([^\s:]+):(\d+): (.*)$`)
	syntaxErrRe  = regexp.MustCompile(`(?s)^(\S+) line:(\d+)\(column:(\d+)\) near '(.*?)':\s*(.*?)\s*$`)
	eofErrRe     = regexp.MustCompile(`(?s)^(\S+) at EOF:\s*(.*?)\s*$`)
)

// exception converts a gopher-lua error into an Exception, attaching the
// source line when the chunk is known.
func (e *Engine) exception(err error) *Exception {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc
	}

	exc = &Exception{Message: err.Error()}
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		exc.Trace = apiErr.StackTrace
		if apiErr.Object != nil {
			exc.Message = apiErr.Object.String()
		}
	}

	msg := strings.TrimSpace(exc.Message)
	switch {
	case syntaxErrRe.MatchString(msg):
		m := syntaxErrRe.FindStringSubmatch(msg)
		exc.File = m[1]
		exc.Line, _ = strconv.Atoi(m[2])
		exc.Column, _ = strconv.Atoi(m[3])
		exc.Token = m[4]
		exc.Message = m[5]
	case eofErrRe.MatchString(msg):
		m := eofErrRe.FindStringSubmatch(msg)
		exc.File = m[1]
		exc.Line = len(e.sources[m[1]])
		exc.Message = m[2]
	case runtimeErrRe.MatchString(msg):
		m := runtimeErrRe.FindStringSubmatch(msg)
		exc.File = m[1]
		exc.Line, _ = strconv.Atoi(m[2])
		exc.Message = m[3]
	default:
		exc.Message = msg
	}

	if exc.File != "" {
		if line, ok := e.SourceLine(exc.File, exc.Line); ok {
			exc.Source = line
		}
	}
	return exc
}
