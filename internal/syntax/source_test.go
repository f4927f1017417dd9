package syntax

import (
	"strings"
	"testing"
)

func TestSourceBasic(t *testing.T) {
	src := newSource("test", strings.NewReader("ab"), nil)

	if src.ch != 'a' || src.line != 1 || src.col != 1 || src.chOff != 0 {
		t.Errorf("got ch=%q pos=%d:%d off=%d, want 'a' 1:1 off=0", src.ch, src.line, src.col, src.chOff)
	}

	src.nextch()
	if src.ch != 'b' || src.col != 2 || src.chOff != 1 {
		t.Errorf("got ch=%q col=%d off=%d, want 'b' col=2 off=1", src.ch, src.col, src.chOff)
	}

	src.nextch()
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestSourceNewline(t *testing.T) {
	src := newSource("test", strings.NewReader("a\nb"), nil)

	src.nextch() // '\n' at 1:2
	if src.ch != '\n' || src.line != 1 || src.col != 2 {
		t.Errorf("got ch=%q pos=%d:%d, want '\\n' 1:2", src.ch, src.line, src.col)
	}

	src.nextch() // 'b' at 2:1
	if src.ch != 'b' || src.line != 2 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want 'b' 2:1", src.ch, src.line, src.col)
	}

	pos := src.pos()
	if pos.Offset() != 2 {
		t.Errorf("pos().Offset() = %d, want 2", pos.Offset())
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test", strings.NewReader(""), nil)
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestSourceInvalidUTF8(t *testing.T) {
	var msgs []string
	errh := func(pos Pos, msg string) {
		msgs = append(msgs, msg)
	}
	newSource("test", strings.NewReader("\xff"), errh)

	if len(msgs) != 1 || !strings.Contains(msgs[0], "UTF-8") {
		t.Errorf("errors = %v, want one UTF-8 error", msgs)
	}
}

func TestCharClasses(t *testing.T) {
	for _, r := range "azAZ_" {
		if !isLetter(r) {
			t.Errorf("isLetter(%q) = false, want true", r)
		}
	}
	for _, r := range "09-!中" {
		if isLetter(r) {
			t.Errorf("isLetter(%q) = true, want false", r)
		}
	}
	for _, r := range "0123456789" {
		if !isDigit(r) {
			t.Errorf("isDigit(%q) = false, want true", r)
		}
	}
	for _, r := range " \t\r\n" {
		if !isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = false, want true", r)
		}
	}
	for _, r := range "+-*/%&|<>=!:(){};" {
		if !isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = false, want true", r)
		}
	}
	for _, r := range "a0 @#$.," {
		if isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = true, want false", r)
		}
	}
}
