package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briefhub-dev/briefhub/internal/cli/client"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// NewBriefingCmd creates the briefing command group
func NewBriefingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Manage your content briefings",
	}

	cmd.AddCommand(newBriefingListCmd())
	cmd.AddCommand(newBriefingCreateCmd())
	cmd.AddCommand(newBriefingShowCmd())
	cmd.AddCommand(newBriefingRenameCmd())
	cmd.AddCommand(newBriefingDeleteCmd())
	cmd.AddCommand(newBriefingChatCmd())
	cmd.AddCommand(newBriefingCompileCmd())

	return cmd
}

func newBriefingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your briefings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefingList()
		},
	}
}

func runBriefingList() error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	return runBriefingListWith(app)
}

func runBriefingListWith(app *appContext) error {
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	briefings, err := app.api.ListBriefings()
	if err != nil {
		return err
	}

	if len(briefings) == 0 {
		fmt.Println("No briefings yet.")
		fmt.Println("\nCreate one with: briefhub briefing create <title>")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tUPDATED")
	fmt.Fprintln(w, "──\t─────\t──────\t───────")
	for _, b := range briefings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			b.ID, b.Title, b.Status, b.UpdatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()

	return nil
}

func newBriefingCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Start a new briefing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefingCreate(strings.Join(args, " "))
		},
	}
}

func runBriefingCreate(title string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	briefing, err := app.api.CreateBriefing(title)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Briefing created: %s (%s)\n", briefing.Title, briefing.ID)
	fmt.Println("\nStart the interview with: briefhub briefing chat " + briefing.ID)
	return nil
}

func newBriefingShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a briefing and its conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefingShow(args[0])
		},
	}
}

func runBriefingShow(id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	b, err := app.api.GetBriefing(id)
	if err != nil {
		return err
	}

	fmt.Printf("Title:  %s\n", b.Title)
	fmt.Printf("Status: %s\n", b.Status)
	if b.LastEditedBy != "" {
		fmt.Printf("Last edited by: %s\n", b.LastEditedBy)
	}
	if b.CompileError != "" {
		fmt.Printf("Compile error: %s\n", b.CompileError)
	}

	if len(b.Messages) > 0 {
		fmt.Println("\nConversation:")
		for _, m := range b.Messages {
			speaker := m.EmployeeName
			if m.SenderType == "user" {
				speaker = "you"
			}
			fmt.Printf("  [%s] %s\n", speaker, m.MessageContent)
		}
	}

	if b.Status == "completed" && b.CompiledContent != nil {
		fmt.Println("\nCompiled output:")
		if title, ok := b.CompiledContent["title"].(string); ok {
			fmt.Printf("  Title: %s\n", title)
		}
		if script, ok := b.CompiledContent["script"].(string); ok {
			fmt.Printf("  Script:\n%s\n", indent(script, "    "))
		}
	}

	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func newBriefingRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a briefing",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefingRename(args[0], strings.Join(args[1:], " "))
		},
	}
}

func runBriefingRename(id, title string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	b, err := app.api.UpdateBriefing(id, client.UpdateBriefingRequest{Title: &title})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Renamed to: %s\n", b.Title)
	return nil
}

func newBriefingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a briefing",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefingDelete(args[0])
		},
	}
}

func runBriefingDelete(id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	if err := app.api.DeleteBriefing(id); err != nil {
		return err
	}

	fmt.Println("✓ Briefing deleted")
	return nil
}

func newBriefingChatCmd() *cobra.Command {
	var employee, message string

	cmd := &cobra.Command{
		Use:   "chat <id>",
		Short: "Talk to an AI employee about a briefing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefingChat(args[0], employee, message)
		},
	}

	cmd.Flags().StringVar(&employee, "employee", "interviewer", "AI employee to talk to")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Send one message and exit (interactive otherwise)")

	return cmd
}

func runBriefingChat(id, employee, message string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	// One-shot mode
	if message != "" {
		resp, err := app.api.Chat(id, employee, message)
		if err != nil {
			return err
		}
		fmt.Printf("[%s] %s\n", employee, resp.Reply)
		if resp.InterviewComplete {
			fmt.Println("\n✓ Interview complete. Compile with: briefhub briefing compile " + id)
		}
		return nil
	}

	// Interactive mode: keep the turn loop going until the employee signals
	// the interview is done or the user bails out.
	fmt.Printf("Chatting with %s (Ctrl+C to stop)\n\n", employee)
	for {
		prompt := promptui.Prompt{Label: "you"}
		input, err := prompt.Run()
		if err != nil {
			fmt.Println("\nChat ended.")
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		resp, err := app.api.Chat(id, employee, input)
		if err != nil {
			return err
		}
		fmt.Printf("\n[%s] %s\n\n", employee, resp.Reply)

		if resp.InterviewComplete {
			fmt.Println("✓ Interview complete. Compile with: briefhub briefing compile " + id)
			return nil
		}
	}
}

func newBriefingCompileCmd() *cobra.Command {
	var wait bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "compile <id>",
		Short: "Compile a briefing into its final script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBriefingCompile(args[0], wait, timeout)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", true, "Poll until compilation finishes")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for compilation")

	return cmd
}

func runBriefingCompile(id string, wait bool, timeout time.Duration) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	if err := app.requireUserLogin(); err != nil {
		return err
	}

	b, err := app.api.Compile(id)
	if err != nil {
		return err
	}
	fmt.Printf("Compilation started (status: %s)\n", b.Status)

	if !wait {
		fmt.Println("Check progress with: briefhub briefing show " + id)
		return nil
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(2 * time.Second)

		b, err = app.api.GetBriefing(id)
		if err != nil {
			return err
		}
		if b.Status == "compiling" {
			continue
		}

		switch b.Status {
		case "completed":
			fmt.Println("✓ Compilation finished")
			return runBriefingShow(id)
		case "compile_failed":
			return fmt.Errorf("compilation failed: %s", b.CompileError)
		default:
			return fmt.Errorf("briefing ended up in unexpected status %q", b.Status)
		}
	}

	return fmt.Errorf("timed out after %s waiting for compilation", timeout)
}
