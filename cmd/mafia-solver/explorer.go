package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/sslotin/mafia-solver/internal/policy"
	"github.com/sslotin/mafia-solver/sdk/mafia"
)

// ExploreCmd runs the line-oriented REPL over a built game tree: "new"
// resets to the root, "ret" pops the cursor stack, and "<action> <child>"
// descends by picking action's child-th transition.
type ExploreCmd struct {
	Blueprint string `help:"optional blueprint to annotate nodes with learned strategies"`
}

var headerStyle, dimStyle = replStyles(termenv.NewOutput(os.Stdout).Profile)

// replStyles returns plain (unstyled) renderers when profile reports no
// color support, so piped output stays stable plain text rather than
// carrying raw escape codes.
func replStyles(profile termenv.Profile) (header, dim lipgloss.Style) {
	if profile == termenv.Ascii {
		return lipgloss.NewStyle(), lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true), lipgloss.NewStyle().Faint(true)
}

func (cmd *ExploreCmd) Run(logger *log.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	g, err := mafia.Build(cfg.RoleParams())
	if err != nil {
		return fmt.Errorf("build game tree: %w", err)
	}

	var pol *policy.Policy
	if cmd.Blueprint != "" {
		pol, err = policy.Load(cmd.Blueprint)
		if err != nil {
			return fmt.Errorf("load blueprint: %w", err)
		}
	}

	return runExplorer(g, pol, os.Stdin, os.Stdout)
}

// runExplorer drives the REPL over r/w so it can be exercised in tests
// without a real terminal attached.
func runExplorer(g *mafia.Graph, pol *policy.Policy, r io.Reader, w io.Writer) error {
	stack := []int{0}
	printNode(g, pol, w, stack[len(stack)-1])

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch {
		case fields[0] == "new":
			stack = []int{0}
		case fields[0] == "ret":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case len(fields) == 2:
			actionID, err1 := strconv.Atoi(fields[0])
			childID, err2 := strconv.Atoi(fields[1])
			cur := g.Nodes[stack[len(stack)-1]]
			if err1 != nil || err2 != nil || cur.Terminal ||
				actionID < 0 || actionID >= len(cur.Actions) ||
				childID < 0 || childID >= len(cur.Actions[actionID]) {
				fmt.Fprintln(w, "ignoring malformed input")
				continue
			}
			stack = append(stack, cur.Actions[actionID][childID].To)
		default:
			fmt.Fprintln(w, "ignoring malformed input")
			continue
		}
		printNode(g, pol, w, stack[len(stack)-1])
	}
	return scanner.Err()
}

func printNode(g *mafia.Graph, pol *policy.Policy, w io.Writer, idx int) {
	node := g.Nodes[idx]
	turn := "day"
	if !node.State.IsDay() {
		turn = "night"
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("node %d", idx)))
	fmt.Fprintf(w, "  state key:      %s\n", node.State.StateKey())
	fmt.Fprintf(w, "  turn:           %s\n", turn)
	fmt.Fprintf(w, "  equity:         %.4f\n", node.Equity)
	fmt.Fprintf(w, "  buckets:        %+v\n", node.State.Buckets)

	if node.Terminal {
		fmt.Fprintln(w, dimStyle.Render("  terminal"))
		return
	}

	infoSet := g.InfoSets[node.InfoSetIndex]
	fmt.Fprintf(w, "  info-set key:   %s\n", infoSet.Key)

	strategy := infoSet.Strategy
	if weights, err := pol.ActionWeights(infoSet.Key, len(node.Actions)); err == nil {
		strategy = weights
	}

	for ai, action := range node.Actions {
		prob := 0.0
		if ai < len(strategy) {
			prob = strategy[ai]
		}
		fmt.Fprintf(w, "  action %d (p=%.3f):\n", ai, prob)
		for ti, tr := range action {
			fmt.Fprintf(w, "    %d -> node %d, state %s (p=%.3f)\n", ti, tr.To, g.Nodes[tr.To].State.StateKey(), tr.Prob)
		}
	}
}
