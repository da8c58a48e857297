//
// Copyright (c) 2020 Jason S. McMullan <jason.mcmullan@gmail.com>
//

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

var escapes = map[byte]byte{
	'b': '\b',
	't': '\t',
	'n': '\n',
	'r': '\r',
	'e': '\033',
}

// word collects one shell-like word
type word struct {
	text     []byte
	quote    byte // Open quote character, or 0
	escaped  bool
	octal    int
	octalLen int
}

func (w *word) flushOctal() {
	if w.octalLen > 0 {
		w.text = append(w.text, byte(w.octal))
		w.octal = 0
		w.octalLen = 0
	}
}

// escape handles the character after a backslash; up to three octal digits
// make one byte
func (w *word) escape(c byte) {
	switch {
	case c >= '0' && c <= '7':
		w.octal = w.octal*8 + int(c-'0')
		w.octalLen++
		if w.octalLen == 3 {
			w.flushOctal()
		}
	case w.octalLen > 0:
		w.flushOctal()
		w.text = append(w.text, c)
	default:
		if e, ok := escapes[c]; ok {
			c = e
		}
		w.text = append(w.text, c)
	}

	w.escaped = w.octalLen > 0
}

// ScanArgs is a bufio.SplitFunc for words with shell-like quoting and
// backslash escapes
func ScanArgs(data []byte, atEOF bool) (advance int, token []byte, err error) {
	skip := 0
	for skip < len(data) && isSpace(data[skip]) {
		skip++
	}

	data = data[skip:]
	if len(data) == 0 {
		advance = skip
		return
	}

	w := &word{}
	for here, c := range data {
		switch {
		case w.escaped:
			w.escape(c)
		case c == '\\':
			w.escaped = true
		case w.quote != 0:
			if c == w.quote {
				w.quote = 0
			} else {
				w.text = append(w.text, c)
			}
		case c == '"' || c == '\'':
			w.quote = c
		case isSpace(c):
			advance = skip + here
			token = w.text
			return
		default:
			w.text = append(w.text, c)
		}
	}

	if !atEOF {
		// The word may continue in the next read
		return
	}

	if w.escaped && w.octalLen > 0 {
		w.flushOctal()
		w.escaped = false
	}

	if w.quote != 0 || w.escaped {
		err = fmt.Errorf("incomplete word: '%v' => '%v'", string(data), string(w.text))
		return
	}

	advance = skip + len(data)
	if len(w.text) > 0 {
		token = w.text
	}

	return
}

// CommandExpand splits a command file into words, expanding environment
// variables in each
func CommandExpand(reader io.Reader) (words []string, err error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(ScanArgs)
	for scanner.Scan() {
		words = append(words, os.ExpandEnv(scanner.Text()))
	}

	err = scanner.Err()
	if err != nil {
		words = nil
	}

	return
}

// ExpandArgs replaces every @file argument with the words of the file
func ExpandArgs(args []string) (out []string, err error) {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") || len(arg) == 1 {
			out = append(out, arg)
			continue
		}

		var file *os.File
		file, err = os.Open(arg[1:])
		if err != nil {
			return
		}

		var words []string
		words, err = CommandExpand(file)
		file.Close()
		if err != nil {
			err = fmt.Errorf("%v: %w", arg[1:], err)
			return
		}

		out = append(out, words...)
	}

	return
}
