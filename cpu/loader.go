package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader reads program images: one binary literal byte per line,
// with '#' starting a comment.
type Loader struct {
	Verbose bool // If set, logs skipped lines.
}

// parseBinary parses a base-2 byte literal, with an optional 0b prefix.
func parseBinary(word string) (value byte, err error) {
	word = strings.TrimPrefix(strings.TrimPrefix(word, "0b"), "0B")
	word = strings.ReplaceAll(word, "_", "")

	v64, err := strconv.ParseUint(word, 2, 8)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = byte(v64)
	return
}

// Parse parses an image into a Program, placing bytes at sequential
// addresses from 0. Lines that are not a binary literal are skipped.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var text string

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
			prog = nil
		}
	}()

	prog = &Program{}
	address := 0

	for scanner.Scan() {
		text = scanner.Text()
		lineno += 1

		line, _, _ := strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		value, perr := parseBinary(line)
		if perr != nil {
			if ld.Verbose {
				log.Printf("loader: %d: skipped: %v", lineno, perr)
			}
			continue
		}

		if address >= MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:  lineno,
			Address: address,
			Words:   []string{line},
			Bytes:   []byte{value},
		})
		address++
	}

	err = scanner.Err()

	return
}
