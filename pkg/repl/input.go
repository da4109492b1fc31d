package repl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// ErrCancelled is returned by a Prompter when the user presses Ctrl+C.
var ErrCancelled = errors.New("cancelled")

// Prompter asks the user questions. Implementations return ErrCancelled on
// interrupt and io.EOF when input is closed.
type Prompter interface {
	// Select shows options and returns the index of the chosen one.
	Select(message string, options []string) (int, error)
	// Input reads one free-text answer. A blank answer yields defaultValue.
	Input(message, defaultValue string) (string, error)
}

// lineReader is the part of *readline.Instance the input handler needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// InputHandler manages user input with readline support
type InputHandler struct {
	rl        lineReader
	out       io.Writer
	completer *choiceCompleter
}

// NewInputHandler creates a new input handler
func NewInputHandler(historyFile string, out io.Writer) (*InputHandler, error) {
	completer := &choiceCompleter{}

	config := &readline.Config{
		Prompt:                 "> ",
		HistoryFile:            historyFile,
		HistoryLimit:           500,
		DisableAutoSaveHistory: false,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		AutoComplete:           completer,
		Stdout:                 out,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &InputHandler{
		rl:        rl,
		out:       out,
		completer: completer,
	}, nil
}

// Select prints a numbered menu and reads until the answer names one of the
// options, either by number or by its text.
func (h *InputHandler) Select(message string, options []string) (int, error) {
	h.completer.set(options)
	defer h.completer.set(nil)

	fmt.Fprintf(h.out, "? %s\n", message)
	for i, opt := range options {
		fmt.Fprintf(h.out, "  %d) %s\n", i+1, opt)
	}

	h.rl.SetPrompt(fmt.Sprintf("Choose 1-%d: ", len(options)))
	for {
		line, err := h.readLine()
		if err != nil {
			return -1, err
		}

		if idx, ok := parseChoice(line, options); ok {
			return idx, nil
		}
		fmt.Fprintf(h.out, "Please enter a number between 1 and %d or an option name.\n", len(options))
	}
}

// Input reads a single free-text answer. The line is returned as typed;
// trimming is left to strict validation.
func (h *InputHandler) Input(message, defaultValue string) (string, error) {
	prompt := "? " + message + " "
	if defaultValue != "" {
		prompt += "(" + defaultValue + ") "
	}
	h.rl.SetPrompt(prompt)

	line, err := h.readLine()
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(line) == "" {
		return defaultValue, nil
	}
	return line, nil
}

// Close closes the input handler
func (h *InputHandler) Close() error {
	return h.rl.Close()
}

func (h *InputHandler) readLine() (string, error) {
	line, err := h.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", ErrCancelled
		}
		return "", err
	}
	return line, nil
}

// parseChoice accepts a 1-based number or an option's text, ignoring case.
func parseChoice(answer string, options []string) (int, bool) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return -1, false
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return -1, false
	}

	for i, opt := range options {
		if strings.EqualFold(opt, answer) {
			return i, true
		}
	}
	return -1, false
}

// choiceCompleter completes menu option names while a Select is active.
type choiceCompleter struct {
	options []string
}

func (c *choiceCompleter) set(options []string) {
	c.options = options
}

// Do implements readline.AutoCompleter.
func (c *choiceCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := strings.ToLower(string(line[:pos]))

	var candidates [][]rune
	for _, opt := range c.options {
		if strings.HasPrefix(strings.ToLower(opt), prefix) {
			candidates = append(candidates, []rune(opt)[pos:])
		}
	}
	return candidates, pos
}
