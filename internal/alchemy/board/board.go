// Package board renders the notebook for a terminal.
package board

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/louisbranch/alchemists/internal/alchemy/deduction"
	"github.com/louisbranch/alchemists/internal/alchemy/event"
	"github.com/louisbranch/alchemists/internal/alchemy/formula"
	"github.com/louisbranch/alchemists/internal/alchemy/ingredient"
)

// Render writes one row per ingredient followed by the golem summary.
func Render(w io.Writer, state deduction.State) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, name := range ingredient.All {
		candidates := state.Candidates(name)
		if len(candidates) == 0 {
			fmt.Fprintf(tw, "%d\t%s\t!!\tno formula fits the evidence\n", i, name.Title())
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, name.Title(), state.Knowledge(name), joinFormulas(candidates))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	ears, chest := state.DeviceSets()
	animatable := state.Animatable()
	titles := make([]string, 0, len(animatable))
	for _, name := range animatable {
		titles = append(titles, name.Title())
	}
	_, err := fmt.Fprintf(w, "Golem ears: %s\nGolem chest: %s\nAnimates: %s\n",
		symbolsOrNone(ears), symbolsOrNone(chest), listOrNone(titles))
	return err
}

// RenderHistory writes the numbered event log.
func RenderHistory(w io.Writer, events []event.Event) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No events recorded.")
		return err
	}
	for i, evt := range events {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i, event.Describe(evt)); err != nil {
			return err
		}
	}
	return nil
}

func joinFormulas(fs []formula.Formula) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

func symbolsOrNone(set formula.SymbolSet) string {
	if set.Len() == 0 {
		return "none"
	}
	return set.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
