package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotsetgreg/dotsoul/pkg/config"
	"github.com/dotsetgreg/dotsoul/pkg/logger"
	"github.com/dotsetgreg/dotsoul/pkg/mcpserver"
	"github.com/dotsetgreg/dotsoul/pkg/sessions"
	"github.com/dotsetgreg/dotsoul/pkg/soul"
	"github.com/dotsetgreg/dotsoul/pkg/tools"
)

const serverName = "soul"

const serverInstructions = `You have a persistent persona document, SOUL.md, that survives across
conversations. Call soul.get at the start of a session to load it, and
soul.update whenever the user tells you something that should shape your
future behavior. Updates land in the session document; an
administrator-managed global document takes precedence on reads when present.`

func executeCLI() error {
	root := buildRootCommand(true)
	if err := root.Execute(); err != nil {
		return err
	}
	return nil
}

func buildRootCommand(includeDocsCommand bool) *cobra.Command {
	var (
		showVersion bool
		configPath  string
	)

	root := &cobra.Command{
		Use:   "dotsoul",
		Short: "Persistent SOUL.md persona files for AI agents",
		Long: strings.TrimSpace(`dotsoul keeps an agent persona in a plain markdown file.

The persona lives in SOUL.md, resolved from an admin-managed global identity
directory first and a per-session directory second. Writes always go to the
session document. Run the MCP server for agent access, or work on documents
directly from the CLI.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion()
				return nil
			}
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show build/version metadata")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.dotsoul/config.json)")

	root.AddCommand(newOnboardCommand(&configPath))
	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newGetCommand(&configPath))
	root.AddCommand(newUpdateCommand(&configPath))
	root.AddCommand(newSectionsCommand(&configPath))
	root.AddCommand(newPathCommand(&configPath))
	root.AddCommand(newSessionsCommand(&configPath))
	root.AddCommand(newEditCommand(&configPath))
	root.AddCommand(newStatusCommand(&configPath))
	root.AddCommand(newVersionCommand())

	if includeDocsCommand {
		docsCmd := newDocsCommand(func() *cobra.Command { return buildRootCommand(false) })
		root.AddCommand(docsCmd)
	}

	return root
}

func resolveConfigPath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return config.DefaultConfigPath()
}

func loadConfigAt(explicit string) (*config.Config, error) {
	cfg, err := config.LoadConfig(resolveConfigPath(explicit))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

func buildStore(cfg *config.Config) *soul.Store {
	return soul.NewStore(soul.NewResolver(cfg.IdentityPath(), cfg.SessionsRoot(), cfg.SoulFile))
}

// selectSession picks the session for a CLI invocation: explicit flag, then
// configured session, then the most recently active directory.
func selectSession(cfg *config.Config, explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if strings.TrimSpace(cfg.Session) != "" {
		return cfg.Session
	}
	return sessions.NewLister(cfg.SessionsRoot()).First()
}

func fixedSession(id string) tools.SessionSource {
	return func(ctx context.Context) string { return id }
}

func printResult(cmd *cobra.Command, result *tools.Result) {
	text := result.ForLLM
	if strings.TrimSpace(result.ForUser) != "" {
		text = result.ForUser
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
}

func newOnboardCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "onboard",
		Short:   "Initialize ~/.dotsoul config and a starter session document",
		Long:    "Create default configuration, the sessions directory, and a starter SOUL.md for the default session.",
		Example: "  dotsoul onboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath(*configPath)
			out := cmd.OutOrStdout()

			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(out, "Config already exists at %s\n", path)
				fmt.Fprint(out, "Overwrite? (y/n): ")
				reader := bufio.NewReader(cmd.InOrStdin())
				response, readErr := reader.ReadString('\n')
				if readErr != nil {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			cfg := config.DefaultConfig()
			if err := config.SaveConfig(path, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			store := buildStore(cfg)
			if _, ok := store.LoadSession(sessions.DefaultID); !ok {
				if _, err := store.WriteSession(sessions.DefaultID, soul.DefaultDocument(cfg.SoulFile)); err != nil {
					return fmt.Errorf("seed default session: %w", err)
				}
			}

			fmt.Fprintf(out, "%s is ready!\n", appName)
			fmt.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "  1. Review the config at", path)
			fmt.Fprintf(out, "  2. Give your agent a voice: %s update --section Personality --body \"Calm and precise.\"\n", appName)
			fmt.Fprintf(out, "  3. Serve it to MCP clients: %s serve\n", appName)
			fmt.Fprintf(out, "  4. Check readiness: %s status\n", appName)
			return nil
		},
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Serve soul.get and soul.update over MCP stdio",
		Long:    "Expose the persona document to MCP clients. Reads resolve through the global tier first; writes always land in the session document.",
		Example: "  dotsoul serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			store := buildStore(cfg)
			lister := sessions.NewLister(cfg.SessionsRoot())
			source := func(ctx context.Context) string {
				if strings.TrimSpace(cfg.Session) != "" {
					return cfg.Session
				}
				return lister.First()
			}

			registry := tools.NewRegistry()
			registry.Register(tools.NewGetTool(store, source))
			registry.Register(tools.NewUpdateTool(store, source))

			srv := mcpserver.New(tools.ServerSpec(serverName, version, registry), serverInstructions)
			return mcpserver.ServeStdio(srv)
		},
	}
}

func newGetCommand(configPath *string) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the resolved persona document",
		Example: strings.Join([]string{
			"  dotsoul get",
			"  dotsoul get --session 6b9f1c2e",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			tool := tools.NewGetTool(buildStore(cfg), fixedSession(selectSession(cfg, session)))
			result, err := tool.Execute(cmd.Context(), map[string]interface{}{})
			if err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id (default: configured or most recent)")
	return cmd
}

func newUpdateCommand(configPath *string) *cobra.Command {
	var (
		session string
		content string
		section string
		body    string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the session document or rewrite one section",
		Long:  "Write the session persona document. --content replaces the whole document; --section with --body rewrites or appends a single section.",
		Example: strings.Join([]string{
			"  dotsoul update --section Personality --body \"Calm and precise.\"",
			"  dotsoul update --content \"# SOUL.md\" --session 6b9f1c2e",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			toolArgs := map[string]interface{}{}
			if content != "" {
				toolArgs["content"] = content
			}
			if section != "" {
				toolArgs["section"] = section
			}
			if body != "" {
				toolArgs["sectionContent"] = body
			}

			tool := tools.NewUpdateTool(buildStore(cfg), fixedSession(selectSession(cfg, session)))
			result, err := tool.Execute(cmd.Context(), toolArgs)
			if err != nil {
				return err
			}
			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id (default: configured or most recent)")
	cmd.Flags().StringVar(&content, "content", "", "Full replacement document")
	cmd.Flags().StringVar(&section, "section", "", "Section name to rewrite or append")
	cmd.Flags().StringVar(&body, "body", "", "Section body (used with --section)")
	return cmd
}

func newSectionsCommand(configPath *string) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:     "sections",
		Short:   "List section names of the resolved document",
		Example: "  dotsoul sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			content, _, ok := buildStore(cfg).Load(selectSession(cfg, session))
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "No %s found.\n", cfg.SoulFile)
				return nil
			}
			names := soul.SectionNames(content)
			if len(names) == 0 {
				fmt.Fprintln(out, "No sections.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id (default: configured or most recent)")
	return cmd
}

func newPathCommand(configPath *string) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:     "path",
		Short:   "Show which file the persona resolves to",
		Example: "  dotsoul path --session 6b9f1c2e",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			loc := buildStore(cfg).Resolver.Resolve(selectSession(cfg, session))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Path:", loc.Path)
			fmt.Fprintln(out, "Tier:", loc.Tier)
			fmt.Fprintln(out, "Exists:", loc.Exists)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id (default: configured or most recent)")
	return cmd
}

func newSessionsCommand(configPath *string) *cobra.Command {
	sessionsRoot := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and create session directories",
	}

	sessionsRoot.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "List session ids, most recently active first",
		Example: "  dotsoul sessions list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			ids, err := sessions.NewLister(cfg.SessionsRoot()).List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No sessions.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	})

	sessionsRoot.AddCommand(&cobra.Command{
		Use:     "new",
		Short:   "Create a session directory with a fresh id",
		Example: "  dotsoul sessions new",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			id := sessions.NewID()
			if _, err := sessions.NewLister(cfg.SessionsRoot()).Ensure(id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	return sessionsRoot
}

func newStatusCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show configuration and persona readiness",
		Example: "  dotsoul status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAt(*configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Status\n", appName)
			fmt.Fprintf(out, "Version: %s\n", formatVersion())
			build, _ := formatBuildInfo()
			if build != "" {
				fmt.Fprintf(out, "Build: %s\n", build)
			}
			fmt.Fprintln(out)

			mark := func(ok bool) string {
				if ok {
					return "✓"
				}
				return "✗"
			}

			path := resolveConfigPath(*configPath)
			_, statErr := os.Stat(path)
			fmt.Fprintln(out, "Config:", path, mark(statErr == nil))

			store := buildStore(cfg)
			session := selectSession(cfg, "")
			for _, candidate := range store.Resolver.Candidates(session) {
				_, statErr = os.Stat(candidate.Path)
				fmt.Fprintf(out, "%s: %s %s\n", candidate.Tier, candidate.Path, mark(statErr == nil))
			}

			ids, listErr := sessions.NewLister(cfg.SessionsRoot()).List()
			if listErr != nil {
				return listErr
			}
			fmt.Fprintf(out, "Sessions: %d (active: %s)\n", len(ids), session)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Show build/version metadata",
		Example: "  dotsoul version",
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion()
			return nil
		},
	}
}
