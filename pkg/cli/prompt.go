// Package cli provides the terminal prompts used by the phonebill setup
// wizard and the interactive plan commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// Prompter reads answers from In and writes questions to Out.
type Prompter struct {
	In      io.Reader
	Out     io.Writer
	scanner *bufio.Scanner
	eof     bool
}

// DefaultPrompter returns a Prompter connected to stdin/stdout.
func DefaultPrompter() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stdout}
}

// readLine returns the next trimmed line. Once input is exhausted it keeps
// returning "" so retry loops fall back to their defaults.
func (p *Prompter) readLine() string {
	if p.eof {
		return ""
	}
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	if p.scanner.Scan() {
		return strings.TrimSpace(p.scanner.Text())
	}
	p.eof = true
	return ""
}

func (p *Prompter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.Out, format, args...)
}

// Ask prints a question with a default value and reads one line.
// Returns the default if the user presses Enter without typing.
func (p *Prompter) Ask(question, defaultVal string) string {
	if defaultVal != "" {
		p.printf("%s [%s]: ", question, defaultVal)
	} else {
		p.printf("%s: ", question)
	}
	if line := p.readLine(); line != "" {
		return line
	}
	return defaultVal
}

// AskSecret reads a line without echoing when In is a terminal, and reads it
// plainly otherwise.
func (p *Prompter) AskSecret(question string) string {
	p.printf("%s: ", question)

	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		p.printf("\n")
		if err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return p.readLine()
}

// AskPort asks for a TCP port number.
func (p *Prompter) AskPort(question string, defaultPort int) int {
	for {
		ans := p.Ask(question, strconv.Itoa(defaultPort))
		n, err := strconv.Atoi(ans)
		if err == nil && n >= 1 && n <= 65535 {
			return n
		}
		if p.eof {
			return defaultPort
		}
		p.printf("  Please enter a port between 1 and 65535.\n")
	}
}

// AskPrice asks for a per-action price. Negative prices are accepted.
func (p *Prompter) AskPrice(question string, defaultVal decimal.Decimal) decimal.Decimal {
	for {
		ans := p.Ask(question, defaultVal.String())
		d, err := decimal.NewFromString(ans)
		if err == nil {
			return d
		}
		if p.eof {
			return defaultVal
		}
		p.printf("  Please enter a number such as 0.25.\n")
	}
}

// Choose presents a numbered list of options and returns the selected value.
func (p *Prompter) Choose(question string, options []string, defaultIdx int) string {
	p.printf("%s\n", question)
	for i, opt := range options {
		marker := "  "
		if i == defaultIdx {
			marker = "> "
		}
		p.printf("%s%d) %s\n", marker, i+1, opt)
	}

	for {
		ans := p.Ask("Choice", strconv.Itoa(defaultIdx+1))
		n, err := strconv.Atoi(ans)
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1]
		}
		// Typing the option itself works too.
		for _, opt := range options {
			if strings.EqualFold(ans, opt) {
				return opt
			}
		}
		if p.eof {
			return options[defaultIdx]
		}
		p.printf("  Please enter a number between 1 and %d.\n", len(options))
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(question string, defaultYes bool) bool {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	ans := p.Ask(fmt.Sprintf("%s [%s]", question, hint), "")
	if ans == "" {
		return defaultYes
	}
	return strings.HasPrefix(strings.ToLower(ans), "y")
}
