package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/dotsetgreg/dotsoul/pkg/soul"
)

func newEditCommand(configPath *string) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the session persona interactively",
		Long:  "Interactive section editor for the session SOUL.md. Reads show the resolved document; writes always land in the session tier.",
		Example: strings.Join([]string{
			"  dotsoul edit",
			"  dotsoul edit --session 6b9f1c2e",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			sessionID := selectSession(cfg, session)
			fmt.Printf("%s Editing session %q (type 'help' for commands)\n\n", appName, sessionID)
			editLoop(buildStore(cfg), sessionID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id (default: configured or most recent)")
	return cmd
}

func editLoop(store *soul.Store, sessionID string) {
	prompt := fmt.Sprintf("%s> ", appName)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".dotsoul_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleEditLoop(store, sessionID)
		return
	}
	defer rl.Close()

	nextLine := func() (string, error) {
		rl.SetPrompt("... ")
		defer rl.SetPrompt(prompt)
		return rl.Readline()
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if handleEditCommand(store, sessionID, line, nextLine) {
			return
		}
	}
}

func simpleEditLoop(store *soul.Store, sessionID string) {
	reader := bufio.NewReader(os.Stdin)
	nextLine := func() (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	for {
		fmt.Printf("%s> ", appName)
		line, err := nextLine()
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if handleEditCommand(store, sessionID, line, nextLine) {
			return
		}
	}
}

// handleEditCommand dispatches one REPL line. It returns true when the loop
// should exit. nextLine feeds body lines for the multi-line commands.
func handleEditCommand(store *soul.Store, sessionID, input string, nextLine func() (string, error)) bool {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "exit", "quit":
		fmt.Println("Goodbye!")
		return true

	case "help":
		printEditHelp()

	case "show":
		content, loc, ok := store.Load(sessionID)
		if !ok {
			fmt.Println("No document found. Use 'set' or 'replace' to create one.")
			return false
		}
		fmt.Printf("[Source: %s]\n\n%s\n", loc.Tier, content)

	case "sections":
		content, _, ok := store.Load(sessionID)
		if !ok {
			fmt.Println("No document found.")
			return false
		}
		names := soul.SectionNames(content)
		if len(names) == 0 {
			fmt.Println("No sections.")
			return false
		}
		for _, name := range names {
			fmt.Println("  " + name)
		}

	case "set":
		name := strings.TrimSpace(strings.TrimPrefix(input, "set"))
		if name == "" {
			fmt.Println("Usage: set <section name>")
			return false
		}
		fmt.Println("Enter the section body. Finish with a single '.' on its own line.")
		body, err := readBodyLines(nextLine)
		if err != nil {
			fmt.Printf("Error reading input: %v\n", err)
			return false
		}
		if strings.TrimSpace(body) == "" {
			fmt.Println("Empty body, section not written.")
			return false
		}
		path, err := store.Upsert(sessionID, name, body)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		fmt.Printf("Updated section %q in %s\n\n", name, path)

	case "replace":
		fmt.Println("Enter the full document. Finish with a single '.' on its own line.")
		content, err := readBodyLines(nextLine)
		if err != nil {
			fmt.Printf("Error reading input: %v\n", err)
			return false
		}
		if strings.TrimSpace(content) == "" {
			fmt.Println("Empty document, nothing written.")
			return false
		}
		path, err := store.WriteSession(sessionID, content)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		fmt.Printf("Wrote %s\n\n", path)

	default:
		fmt.Printf("Unknown command: %s\n", fields[0])
		printEditHelp()
	}

	return false
}

func readBodyLines(nextLine func() (string, error)) (string, error) {
	lines := []string{}
	for {
		line, err := nextLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func printEditHelp() {
	fmt.Println("Commands:")
	fmt.Println("  show            Print the resolved document")
	fmt.Println("  sections        List section names")
	fmt.Println("  set <section>   Rewrite or append one section")
	fmt.Println("  replace         Replace the whole session document")
	fmt.Println("  help            Show this help")
	fmt.Println("  exit            Leave the editor")
}
