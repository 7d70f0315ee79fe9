package script

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	lua "github.com/yuin/gopher-lua"
)

func TestExceptionSnippet(t *testing.T) {
	tests := []struct {
		name string
		exc  Exception
		want string
	}{
		{
			name: "whole statement",
			exc:  Exception{File: "main.lua", Line: 7, Source: "  x = y + 1"},
			want: "7 | " + "  x = y + 1\n" + "  | " + "  ^^^^^^^^^",
		},
		{
			name: "token",
			exc:  Exception{File: "main.lua", Line: 12, Column: 11, Token: "=", Source: "local x = = 2"},
			want: "12 | local x = = 2\n" + "   | " + "          ^",
		},
		{
			name: "no source",
			exc:  Exception{File: "main.lua", Line: 3},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.exc.Snippet())
		})
	}
}

func TestExceptionWhere(t *testing.T) {
	assert.Equal(t, "?", (&Exception{Message: "x"}).Where())
	assert.Equal(t, "a.lua:4", (&Exception{File: "a.lua", Line: 4}).Where())
	assert.Equal(t, "a.lua:4: bad", (&Exception{File: "a.lua", Line: 4, Message: "bad"}).Error())
	assert.Equal(t, "bad", (&Exception{Message: "bad"}).Error())
}

func TestExceptionParsing(t *testing.T) {
	e := NewEngine(log.New(io.Discard))
	defer e.Close()
	e.sources["m.lua"] = []string{"one", "two", "three"}

	tests := []struct {
		name    string
		err     error
		file    string
		line    int
		message string
		source  string
	}{
		{
			name:    "runtime",
			err:     &lua.ApiError{Object: lua.LString("m.lua:2: attempt to call a nil value")},
			file:    "m.lua",
			line:    2,
			message: "attempt to call a nil value",
			source:  "two",
		},
		{
			name:    "syntax",
			err:     errors.New("m.lua line:3(column:1) near 'three':   syntax error\n"),
			file:    "m.lua",
			line:    3,
			message: "syntax error",
			source:  "three",
		},
		{
			name:    "eof",
			err:     errors.New("m.lua at EOF:   unexpected end\n"),
			file:    "m.lua",
			line:    3,
			message: "unexpected end",
			source:  "three",
		},
		{
			name:    "unknown",
			err:     errors.New("something odd"),
			message: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exc := e.exception(tt.err)
			assert.Equal(t, tt.file, exc.File)
			assert.Equal(t, tt.line, exc.Line)
			assert.Equal(t, tt.message, exc.Message)
			assert.Equal(t, tt.source, exc.Source)
		})
	}
}
