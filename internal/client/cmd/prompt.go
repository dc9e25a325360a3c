package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// bodyEnd terminates multi-line input.
const bodyEnd = "."

type prompter struct {
	cmd *cobra.Command
	r   *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, r: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) readLine() (string, error) {
	s, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// line asks for a value unless def is already set.
func (p *prompter) line(label, def string) (string, error) {
	if def != "" {
		return def, nil
	}
	fmt.Fprint(p.cmd.OutOrStdout(), label)
	s, err := p.readLine()
	return strings.TrimSpace(s), err
}

// text reads lines until bodyEnd or EOF.
func (p *prompter) text(label, def string) (string, error) {
	if def != "" {
		return def, nil
	}
	fmt.Fprintf(p.cmd.OutOrStdout(), "%s (end with a line containing only %q):\n", label, bodyEnd)
	var lines []string
	for {
		s, err := p.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		l := strings.TrimRight(s, "\r\n")
		if l == bodyEnd {
			break
		}
		if l != "" || err == nil {
			lines = append(lines, l)
		}
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// password reads without echo on a terminal and falls back to a plain line.
func (p *prompter) password(label, def string) (string, error) {
	if def != "" {
		return def, nil
	}
	out := p.cmd.OutOrStdout()
	fmt.Fprint(out, label)
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pass, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		return string(pass), err
	}
	return p.readLine()
}

// confirm is a y/N question; skip answers it in advance.
func (p *prompter) confirm(question string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	fmt.Fprintf(p.cmd.OutOrStdout(), "%s [y/N]: ", question)
	s, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}
