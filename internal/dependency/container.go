// Package dependency wires core toolbridge services using go.uber.org/dig.
package dependency

import (
	"go.uber.org/dig"

	"github.com/toolbridge/toolbridge/internal/agent"
	"github.com/toolbridge/toolbridge/internal/config"
	"github.com/toolbridge/toolbridge/internal/cron"
	"github.com/toolbridge/toolbridge/internal/providers"
	"github.com/toolbridge/toolbridge/internal/schema"
	"github.com/toolbridge/toolbridge/internal/session"
	"github.com/toolbridge/toolbridge/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider schema.LLMProvider
	toolList *tools.ToolList
	loop     *agent.Loop
	sessions *session.Manager
	cronSvc  *cron.Service
}

func (c *Container) Provider() schema.LLMProvider { return c.provider }
func (c *Container) ToolList() *tools.ToolList    { return c.toolList }
func (c *Container) Loop() *agent.Loop            { return c.loop }
func (c *Container) Sessions() *session.Manager   { return c.sessions }
func (c *Container) CronService() *cron.Service   { return c.cronSvc }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	for _, provide := range []any{
		func() *config.Config { return cfg },
		newProvider,
		newToolList,
		newLoop,
		newSessionManager,
		newCronService,
	} {
		if err := d.Provide(provide); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		toolList *tools.ToolList,
		loop *agent.Loop,
		sessions *session.Manager,
		cronSvc *cron.Service,
	) {
		result = &Container{
			provider: provider,
			toolList: toolList,
			loop:     loop,
			sessions: sessions,
			cronSvc:  cronSvc,
		}
	})
	return result, err
}

// newProvider builds the configured LLM provider. A missing API key is not an
// error here: connecting to a server and listing its tools must work without
// one, and the chat commands check key presence themselves.
func newProvider(cfg *config.Config) schema.LLMProvider {
	name, pc := cfg.ActiveProvider()
	return providers.New(providers.Params{
		ProviderName: name,
		APIKey:       pc.APIKey,
		APIBase:      pc.APIBase,
		ExtraHeaders: pc.ExtraHeaders,
		DefaultModel: cfg.Defaults.Model,
	})
}

// newToolList seeds the registry with the built-in tools; MCP servers extend
// it at connect time.
func newToolList() *tools.ToolList {
	return tools.NewToolList(tools.NewWebFetchTool(0))
}

func newLoop(provider schema.LLMProvider, toolList *tools.ToolList, cfg *config.Config) *agent.Loop {
	return agent.NewLoop(provider, toolList, agent.Settings{
		Model:        cfg.Defaults.Model,
		MaxTokens:    cfg.Defaults.MaxTokens,
		Temperature:  cfg.Defaults.Temperature,
		MaxIter:      cfg.Defaults.MaxToolIter,
		SystemPrompt: cfg.Defaults.SystemPrompt,
	})
}

func newSessionManager() (*session.Manager, error) {
	return session.NewManager(config.SessionsDir())
}

func newCronService() *cron.Service {
	return cron.NewService(config.CronStorePath())
}
