package console

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Prompt != "> " {
		t.Fatalf("prompt = %q, want %q", cfg.Prompt, "> ")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ALCHEMISTS_CONSOLE_PROMPT", "env> ")
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-prompt", "flag> "})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Prompt != "flag> " {
		t.Fatalf("prompt = %q, want flag> ", cfg.Prompt)
	}
}

func runConsole(t *testing.T, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	if err := Run(context.Background(), Config{Prompt: "> "}, strings.NewReader(input), &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String(), errOut.String()
}

func TestRunRecordsObservations(t *testing.T) {
	out, _ := runConsole(t, strings.Join([]string{
		"mix mushroom fern R+",
		"lookup 0 moon",
		"history",
		"quit",
		"board",
	}, "\n"))

	for _, want := range []string{
		"0. Mixed mushroom and fern to make R+",
		"1. Looked up mushroom and found it to be of the moon",
		"Golem ears:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Golem ears:") != 3 {
		t.Fatalf("expected the board at start and after each mutation:\n%s", out)
	}
}

func TestRunReportsErrorsAndContinues(t *testing.T) {
	out, _ := runConsole(t, strings.Join([]string{
		"mix mushroom mushroom N",
		"spy dragon +",
		"lookup fern noon",
		"golem fern nose",
		"delete 4",
		"delete x",
		"mix fern",
		"teleport",
		"history",
	}, "\n"))

	if got := strings.Count(out, "error: "); got != 8 {
		t.Fatalf("errors = %d, want 8:\n%s", got, out)
	}
	for _, want := range []string{
		"cannot mix mushroom with itself",
		`unknown ingredient "dragon"`,
		"usage: mix INGREDIENT INGREDIENT RESULT",
		`unknown command "teleport"`,
		"No events recorded.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunNeutralSpyIsNotRecorded(t *testing.T) {
	out, _ := runConsole(t, "spy toad N\nhistory\n")
	if !strings.Contains(out, "not recorded") {
		t.Fatalf("expected neutral spy notice:\n%s", out)
	}
	if !strings.Contains(out, "No events recorded.") {
		t.Fatalf("expected empty history:\n%s", out)
	}
}

func TestRunDeleteAndGolem(t *testing.T) {
	out, _ := runConsole(t, strings.Join([]string{
		"golem mushroom ears",
		"delete 0",
		"history",
	}, "\n"))
	if !strings.Contains(out, "Removed: Fed mushroom to the golem and the ears steamed") {
		t.Fatalf("expected removal notice:\n%s", out)
	}
	if !strings.Contains(out, "No events recorded.") {
		t.Fatalf("expected empty history after delete:\n%s", out)
	}
}

func TestRunLogsContradictions(t *testing.T) {
	_, errOut := runConsole(t, strings.Join([]string{
		"lookup feather sun",
		"lookup feather moon",
	}, "\n"))
	if !strings.Contains(errOut, "feather") {
		t.Fatalf("expected contradiction log to name feather, got %q", errOut)
	}
}

func TestRunHelp(t *testing.T) {
	out, _ := runConsole(t, "help\nexit\n")
	if !strings.Contains(out, "Commands:") {
		t.Fatalf("expected help text:\n%s", out)
	}
}
