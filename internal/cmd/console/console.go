// Package console runs the interactive notebook on a terminal.
package console

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/louisbranch/alchemists/internal/alchemy/board"
	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
	"github.com/louisbranch/alchemists/internal/alchemy/notebook"
	entrypoint "github.com/louisbranch/alchemists/internal/platform/cmd"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

// Config holds console command configuration.
type Config struct {
	Prompt string `env:"ALCHEMISTS_CONSOLE_PROMPT" envDefault:"> "`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Prompt, "prompt", cfg.Prompt, "input prompt")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run reads commands from in until quit, end of input, or ctx ends.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConsole, func(ctx context.Context) error {
		s := &session{
			notebook: notebook.New(notebook.WithLogger(log.New(errOut, "", 0))),
			out:      out,
		}
		return s.loop(ctx, cfg.Prompt, in)
	})
}

type session struct {
	notebook *notebook.Notebook
	out      io.Writer
}

func (s *session) loop(ctx context.Context, prompt string, in io.Reader) error {
	if err := board.Render(s.out, s.notebook.State()); err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		quit, err := s.execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// execute runs one command line. Mutations print the board when accepted.
func (s *session) execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	var mutated bool
	switch command {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		_, err = io.WriteString(s.out, helpText)
	case "board":
		err = board.Render(s.out, s.notebook.State())
	case "history":
		err = board.RenderHistory(s.out, s.notebook.Events())
	case "mix":
		mutated, err = s.mix(ctx, args)
	case "spy":
		mutated, err = s.spy(ctx, args)
	case "lookup":
		mutated, err = s.lookup(ctx, args)
	case "golem":
		mutated, err = s.golem(ctx, args)
	case "delete":
		mutated, err = s.delete(ctx, args)
	default:
		err = fmt.Errorf("unknown command %q, type help", command)
	}
	if err != nil || !mutated {
		return false, err
	}
	return false, board.Render(s.out, s.notebook.State())
}

func (s *session) mix(ctx context.Context, args []string) (bool, error) {
	if len(args) != 3 {
		return false, usageError("mix INGREDIENT INGREDIENT RESULT")
	}
	result, err := parseResult(args[2])
	if err != nil {
		return false, err
	}
	_, err = s.notebook.SubmitMix(ctx, resolveIngredient(args[0]), resolveIngredient(args[1]), result)
	return err == nil, err
}

func (s *session) spy(ctx context.Context, args []string) (bool, error) {
	if len(args) != 2 {
		return false, usageError("spy INGREDIENT RESULT")
	}
	result, err := parseResult(args[1])
	if err != nil {
		return false, err
	}
	index, err := s.notebook.SubmitSpy(ctx, resolveIngredient(args[0]), result)
	if err != nil {
		return false, err
	}
	if index == notebook.NotRecorded {
		fmt.Fprintln(s.out, "A neutral potion reveals nothing; not recorded.")
		return false, nil
	}
	return true, nil
}

func (s *session) lookup(ctx context.Context, args []string) (bool, error) {
	if len(args) != 2 {
		return false, usageError("lookup INGREDIENT moon|sun")
	}
	alignment, err := event.ParseAlignment(args[1])
	if err != nil {
		return false, err
	}
	_, err = s.notebook.SubmitLookup(ctx, resolveIngredient(args[0]), alignment)
	return err == nil, err
}

func (s *session) golem(ctx context.Context, args []string) (bool, error) {
	if len(args) == 0 || len(args) > 3 {
		return false, usageError("golem INGREDIENT [ears] [chest]")
	}
	var ears, chest bool
	for _, arg := range args[1:] {
		switch strings.ToLower(arg) {
		case "ears", "e":
			ears = true
		case "chest", "c":
			chest = true
		default:
			return false, fmt.Errorf("golem reaction must be ears or chest, got %q", arg)
		}
	}
	_, err := s.notebook.SubmitDeviceTest(ctx, resolveIngredient(args[0]), ears, chest)
	return err == nil, err
}

func (s *session) delete(ctx context.Context, args []string) (bool, error) {
	if len(args) != 1 {
		return false, usageError("delete INDEX")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return false, fmt.Errorf("event index must be a number, got %q", args[0])
	}
	removed, err := s.notebook.DeleteEvent(ctx, index)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(s.out, "Removed: %s\n", event.Describe(removed))
	return true, nil
}

func resolveIngredient(input string) ingredient.Name {
	if name, ok := ingredient.Lookup(input); ok {
		return name
	}
	return ingredient.Name(input)
}

func parseResult(input string) (formula.Result, error) {
	result, err := formula.ParseResult(input)
	if err != nil {
		return formula.Result{}, apperrors.WrapWithMetadata(apperrors.CodeResultInvalid, "invalid result",
			map[string]string{"result": input}, err)
	}
	return result, nil
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

const helpText = `Commands:
  mix A B RESULT        record brewing A with B (RESULT: N, R+, g-, + ...)
  spy A RESULT          record another player's potion made with A
  lookup A moon|sun     record the encyclopedia alignment of A
  golem A [ears] [chest] record the golem's reaction to A
  history               list recorded events
  delete N              forget event N and recompute
  board                 show what is known
  help                  show this help
  quit                  leave
Ingredients may be named or given by index 0-7.
`
