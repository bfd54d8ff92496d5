package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wordquiz/panel"
)

func listCmd(opts *options) *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions with per-difficulty and per-type counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := opts.panel()
			if err := p.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("failed to list questions: %w", err)
			}
			p.SetFilter(difficulty)

			out := cmd.OutOrStdout()
			printCounts(out, p)

			visible := p.Visible()
			if len(visible) == 0 {
				fmt.Fprintln(out, "No questions found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDIFFICULTY\tTYPE\tTEXT\tANSWER")
			for _, q := range visible {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", q.ID, difficultyLabel(q.Difficulty), q.Type, truncate(q.Text, 60), q.Answer)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "Only show one difficulty (facil, medio, dificil)")
	return cmd
}

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			q, err := opts.client().Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get question: %w", err)
			}

			printQuestion(cmd.OutOrStdout(), q)
			return nil
		},
	}
}

func addCmd(opts *options) *cobra.Command {
	var (
		text, qtype, difficulty, answer, hint string
		choices                              []string
		correct                              int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question",
		Long: `Add an open or multiple-choice question.

Open questions need --answer. MCQ questions need four --option flags and
--correct, the 1-based number of the right option.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := opts.panel()

			form := p.Form()
			form.Text = text
			form.Type = strings.ToUpper(qtype)
			form.Difficulty = difficulty
			form.Answer = answer
			form.Hint1 = hint
			if len(choices) > len(form.Options) {
				return fmt.Errorf("at most %d options are allowed", len(form.Options))
			}
			copy(form.Options[:], choices)
			form.CorrectIndex = correct - 1

			q, err := p.Submit(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to add question: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created question %d\n", color.GreenString("✓"), q.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Question text")
	cmd.Flags().StringVar(&qtype, "type", panel.TypeOpen, "Question type (OPEN or MCQ)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", panel.DifficultyEasy, "Difficulty (facil, medio, dificil)")
	cmd.Flags().StringVar(&answer, "answer", "", "Answer (required for OPEN)")
	cmd.Flags().StringVar(&hint, "hint", "", "Optional hint")
	cmd.Flags().StringArrayVar(&choices, "option", nil, "MCQ option, repeat four times")
	cmd.Flags().IntVar(&correct, "correct", 1, "Number of the correct MCQ option (1-4)")
	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a question after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			p, c := opts.panel()
			q, err := c.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get question: %w", err)
			}

			p.RequestDelete(*q)
			pending, _ := p.Pending()

			out := cmd.OutOrStdout()
			if !skipConfirm && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete question %d %q?", pending.ID, truncate(pending.Text, 60))) {
				p.CancelDelete()
				fmt.Fprintln(out, "Cancelled")
				return nil
			}

			if err := p.ConfirmDelete(cmd.Context()); err != nil {
				return fmt.Errorf("failed to delete question: %w", err)
			}

			fmt.Fprintf(out, "%s Deleted question %d\n", color.GreenString("✓"), pending.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func loginCmd(opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Get a bearer token for write operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := opts.client().Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func printCounts(out io.Writer, p *panel.Panel) {
	counts := p.DifficultyCounts()
	types := p.TypeCounts()

	parts := make([]string, 0, len(panel.Difficulties))
	for _, d := range panel.Difficulties {
		parts = append(parts, fmt.Sprintf("%s %d", difficultyLabel(d), counts[d]))
	}
	fmt.Fprintf(out, "%s | OPEN %d  MCQ %d  total %d\n\n", strings.Join(parts, "  "), types.Open, types.MCQ, types.Total)
}

func printQuestion(out io.Writer, q *panel.Question) {
	fmt.Fprintf(out, "Question %d [%s, %s]\n", q.ID, difficultyLabel(q.Difficulty), q.Type)
	fmt.Fprintf(out, "  %s\n", q.Text)
	for i, o := range q.Options {
		marker := " "
		if q.CorrectIndex != nil && *q.CorrectIndex == i {
			marker = color.GreenString("*")
		}
		fmt.Fprintf(out, "  %s %d. %s\n", marker, i+1, o)
	}
	fmt.Fprintf(out, "  Answer: %s\n", q.Answer)
	if q.Hint1 != nil {
		fmt.Fprintf(out, "  Hint: %s\n", *q.Hint1)
	}
	fmt.Fprintf(out, "  Created: %s\n", q.CreatedAt.Format("2006-01-02 15:04"))
}

func difficultyLabel(d string) string {
	switch d {
	case panel.DifficultyEasy:
		return color.New(color.FgHiGreen).Sprint(d)
	case panel.DifficultyMedium:
		return color.New(color.FgYellow).Sprint(d)
	case panel.DifficultyHard:
		return color.New(color.FgRed).Sprint(d)
	default:
		return d
	}
}

func confirm(in io.Reader, out io.Writer, msg string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", msg)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
