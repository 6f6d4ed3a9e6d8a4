package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/cron"
	"github.com/toolbridge/toolbridge/internal/dependency"
	"github.com/toolbridge/toolbridge/internal/mcp"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Manage scheduled prompts",
}

func init() {
	cronCmd.AddCommand(cronListCmd)
	cronCmd.AddCommand(cronAddCmd)
	cronCmd.AddCommand(cronRemoveCmd)
	cronCmd.AddCommand(cronEnableCmd)
	cronCmd.AddCommand(cronRunCmd)
	cronCmd.AddCommand(cronStartCmd)
}

// ---- list ------------------------------------------------------------------

var cronListAll bool

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled prompts",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc := cron.NewService(config.CronStorePath())
		jobs := svc.List(cronListAll)
		if len(jobs) == 0 {
			fmt.Println("No scheduled prompts.")
			return nil
		}
		fmt.Printf("%-10s %-20s %-25s %-10s %-20s\n", "ID", "Name", "Schedule", "Status", "Next Run")
		for _, j := range jobs {
			status := "enabled"
			if !j.Enabled {
				status = "disabled"
			}
			nextRun := ""
			if j.State.NextRunAtMs != nil {
				nextRun = time.UnixMilli(*j.State.NextRunAtMs).Format("2006-01-02 15:04")
			}
			fmt.Printf("%-10s %-20s %-25s %-10s %-20s\n", j.ID, clip(j.Name, 19), clip(formatSchedule(j.Schedule), 24), status, nextRun)
		}
		return nil
	},
}

func init() {
	cronListCmd.Flags().BoolVarP(&cronListAll, "all", "a", false, "Include disabled jobs")
}

// ---- add -------------------------------------------------------------------

var (
	cronAddName   string
	cronAddPrompt string
	cronAddEvery  int
	cronAddExpr   string
	cronAddTZ     string
	cronAddAt     string
)

var cronAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scheduled prompt",
	RunE: func(_ *cobra.Command, _ []string) error {
		if cronAddName == "" || cronAddPrompt == "" {
			return fmt.Errorf("--name and --prompt are required")
		}
		if cronAddTZ != "" && cronAddExpr == "" {
			return fmt.Errorf("--tz can only be used with --cron")
		}

		var kind string
		var everyMs, atMs int64

		switch {
		case cronAddEvery > 0:
			kind = "every"
			everyMs = int64(cronAddEvery) * 1000
		case cronAddExpr != "":
			kind = "cron"
		case cronAddAt != "":
			kind = "at"
			dt, err := time.ParseInLocation("2006-01-02T15:04:05", cronAddAt, time.Local)
			if err != nil {
				dt, err = time.Parse(time.RFC3339, cronAddAt)
				if err != nil {
					return fmt.Errorf("invalid --at value %q: %w", cronAddAt, err)
				}
			}
			atMs = dt.UnixMilli()
		default:
			return fmt.Errorf("must specify --every, --cron, or --at")
		}

		svc := cron.NewService(config.CronStorePath())
		job, err := svc.Add(cronAddName, cronAddPrompt, kind, everyMs, cronAddExpr, cronAddTZ, atMs, kind == "at")
		if err != nil {
			return err
		}
		fmt.Printf("✓ Added job '%s' (%s)\n", job.Name, job.ID)
		return nil
	},
}

func init() {
	cronAddCmd.Flags().StringVarP(&cronAddName, "name", "n", "", "Job name (required)")
	cronAddCmd.Flags().StringVarP(&cronAddPrompt, "prompt", "p", "", "Prompt to run (required)")
	cronAddCmd.Flags().IntVarP(&cronAddEvery, "every", "e", 0, "Run every N seconds")
	cronAddCmd.Flags().StringVarP(&cronAddExpr, "cron", "c", "", "Cron expression (e.g. '0 9 * * *')")
	cronAddCmd.Flags().StringVar(&cronAddTZ, "tz", "", "IANA timezone for --cron")
	cronAddCmd.Flags().StringVar(&cronAddAt, "at", "", "Run once at ISO datetime")
}

// ---- remove / enable / run -------------------------------------------------

var cronRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a scheduled prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc := cron.NewService(config.CronStorePath())
		if !svc.Remove(args[0]) {
			return fmt.Errorf("no job with id %q", args[0])
		}
		fmt.Printf("✓ Removed job %s\n", args[0])
		return nil
	},
}

var cronDisable bool

var cronEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable (or, with --off, disable) a scheduled prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc := cron.NewService(config.CronStorePath())
		job, ok := svc.Enable(args[0], !cronDisable)
		if !ok {
			return fmt.Errorf("no job with id %q", args[0])
		}
		state := "enabled"
		if !job.Enabled {
			state = "disabled"
		}
		fmt.Printf("✓ Job '%s' %s\n", job.Name, state)
		return nil
	},
}

func init() {
	cronEnableCmd.Flags().BoolVar(&cronDisable, "off", false, "Disable instead of enable")
}

var cronRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Run a scheduled prompt immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		setupLogging()
		config.LoadDotEnv()

		svc, _, cleanup, err := cronRuntime(context.Background(), "")
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if !svc.Run(ctx, args[0], true) {
			return fmt.Errorf("no job with id %q", args[0])
		}
		return nil
	},
}

// ---- start -----------------------------------------------------------------

var cronStartServer string

var cronStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scheduler in the foreground",
	RunE: func(_ *cobra.Command, _ []string) error {
		setupLogging()
		config.LoadDotEnv()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc, _, cleanup, err := cronRuntime(ctx, cronStartServer)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Printf("%s Scheduler running (Ctrl+C to stop)\n", logo)
		if err := svc.Start(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVar(&cronStartServer, "server", "", "MCP server to make available to scheduled prompts")
}

// cronRuntime builds the service with an onJob callback that relays the
// stored prompt through the loop. When serverTarget is non-empty, that MCP
// server's tools are connected first.
func cronRuntime(ctx context.Context, serverTarget string) (*cron.Service, *dependency.Container, func(), error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	config.ApplyEnv(cfg)

	container, err := dependency.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {}
	if serverTarget != "" {
		registry, err := config.LoadServers("")
		if err != nil {
			return nil, nil, nil, err
		}
		spec, err := mcp.Resolve(serverTarget, nil, registry)
		if err != nil {
			return nil, nil, nil, err
		}
		manager := mcp.NewManager(spec)
		if err := manager.Connect(ctx, container.ToolList()); err != nil {
			return nil, nil, nil, err
		}
		cleanup = manager.Close
	}

	svc := container.CronService()
	svc.SetOnJob(func(jobCtx context.Context, job cron.Job) (string, error) {
		conversation := container.Loop().NewConversation()
		response, err := container.Loop().Process(jobCtx, &conversation, job.Prompt, nil)
		if err != nil {
			return "", err
		}
		fmt.Printf("[%s] %s\n%s\n", time.Now().Format("15:04:05"), job.Name, response)
		return response, nil
	})
	return svc, container, cleanup, nil
}

// ---- helpers ---------------------------------------------------------------

func formatSchedule(s cron.Schedule) string {
	switch s.Kind {
	case "every":
		if s.EveryMs != nil {
			return fmt.Sprintf("every %ds", *s.EveryMs/1000)
		}
	case "cron":
		if s.Expr != nil {
			return "cron " + *s.Expr
		}
	case "at":
		if s.AtMs != nil {
			return "at " + time.UnixMilli(*s.AtMs).Format("2006-01-02 15:04")
		}
	}
	return s.Kind
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
