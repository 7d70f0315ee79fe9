package core

import (
	"strconv"
	"strings"
)

// Key codes. The numbering leaves gaps so codes stay stable when keys are added.
const (
	KeyA = 1 + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

const (
	KeyF1 = 47 + iota
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEscape
	KeyTilde
	KeyMinus
	KeyEquals
	KeyBackspace
	KeyTab
	KeyOpenBrace
	KeyCloseBrace
	KeyEnter
	KeySemicolon
	KeyQuote
	KeyBackslash
	KeyComma
	KeyFullStop
	KeySlash
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// Mouse buttons.
const (
	ButtonLeft   = 1
	ButtonRight  = 2
	ButtonMiddle = 3
)

var keyNames = map[string]int{
	"ESCAPE": KeyEscape, "TILDE": KeyTilde, "MINUS": KeyMinus, "EQUALS": KeyEquals,
	"BACKSPACE": KeyBackspace, "TAB": KeyTab, "OPENBRACE": KeyOpenBrace, "CLOSEBRACE": KeyCloseBrace,
	"ENTER": KeyEnter, "SEMICOLON": KeySemicolon, "QUOTE": KeyQuote, "BACKSLASH": KeyBackslash,
	"COMMA": KeyComma, "FULLSTOP": KeyFullStop, "SLASH": KeySlash, "SPACE": KeySpace,
	"INSERT": KeyInsert, "DELETE": KeyDelete, "HOME": KeyHome, "END": KeyEnd,
	"PGUP": KeyPgUp, "PGDN": KeyPgDn, "LEFT": KeyLeft, "RIGHT": KeyRight, "UP": KeyUp, "DOWN": KeyDown,
}

var runeKeys = map[rune]int{
	'`': KeyTilde, '~': KeyTilde, '-': KeyMinus, '_': KeyMinus, '=': KeyEquals, '+': KeyEquals,
	'[': KeyOpenBrace, '{': KeyOpenBrace, ']': KeyCloseBrace, '}': KeyCloseBrace,
	';': KeySemicolon, ':': KeySemicolon, '\'': KeyQuote, '"': KeyQuote, '\\': KeyBackslash, '|': KeyBackslash,
	',': KeyComma, '<': KeyComma, '.': KeyFullStop, '>': KeyFullStop, '/': KeySlash, '?': KeySlash,
	' ': KeySpace,
}

func init() {
	for i := 0; i < 26; i++ {
		keyNames[string(rune('A'+i))] = KeyA + i
	}
	for i := 0; i < 10; i++ {
		keyNames[string(rune('0'+i))] = Key0 + i
	}
	for i := 0; i < 12; i++ {
		keyNames["F"+strconv.Itoa(i+1)] = KeyF1 + i
	}
}

// KeyNames returns the key table keyed by upper-case name ("A", "SPACE", "F1").
func KeyNames() map[string]int {
	out := make(map[string]int, len(keyNames))
	for k, v := range keyNames {
		out[k] = v
	}
	return out
}

// KeyByName looks a key up by its case-insensitive name.
func KeyByName(name string) (int, bool) {
	k, ok := keyNames[strings.ToUpper(name)]
	return k, ok
}

// KeyForRune maps a typed character to the key that produces it.
func KeyForRune(r rune) (int, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + int(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + int(r-'A'), true
	case r >= '0' && r <= '9':
		return Key0 + int(r-'0'), true
	}
	k, ok := runeKeys[r]
	return k, ok
}
