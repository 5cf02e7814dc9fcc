// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the user entered nothing.
var ErrEmptyInput = errors.New("no input")

// ReadSecret prints prompt to out and reads one line from in without echo.
// When in is not a terminal (piped input in scripts) the line is read as is.
func ReadSecret(in *os.File, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	var line string
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		line = string(b)
	} else {
		s, err := readLine(in)
		if err != nil {
			return "", err
		}
		line = s
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", ErrEmptyInput
	}
	return line, nil
}

// ReadLine prints prompt to out and reads one visible line from in.
func ReadLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	s, err := readLine(in)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyInput
	}
	return s, nil
}

// readLine reads up to and including '\n' one byte at a time, so nothing past
// the line is consumed and the next prompt can read from the same input.
func readLine(in io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 1 {
			sb.WriteByte(buf[0])
			if buf[0] == '\n' {
				return sb.String(), nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
	}
}
