package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/mywio/odyssey-build/pkg/builder"
	"github.com/mywio/odyssey-build/pkg/config"
	"github.com/mywio/odyssey-build/pkg/core"
	"github.com/mywio/odyssey-build/pkg/notify"
	"github.com/mywio/odyssey-build/pkg/secrets"
	"github.com/mywio/odyssey-build/pkg/utils"
)

// Represents the 'odyssey-build build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory, recreated on every run." placeholder:"DIR"`
	Template    string `help:"HTML template containing the placeholder." placeholder:"FILE"`
	Sidecar     string `help:"Configuration file copied next to the template." placeholder:"FILE"`
	Assets      string `help:"Asset directory copied into the output, if present." placeholder:"DIR"`
	Placeholder string `help:"Literal token replaced with the API key." placeholder:"TOKEN"`
	SecretEnv   string `name:"secret-env" help:"Environment variable holding the API key." placeholder:"NAME"`
	PreviewLen  int    `name:"preview-len" help:"Characters of the key shown in the build log."`
	HooksDir    string `name:"hooks-dir" help:"Directory of *.sh scripts run after a successful build." placeholder:"DIR"`
}

// Executes the build command.
//
// The API key is resolved before anything on disk changes. Once the build
// has finished, post-build hooks run and the webhook, if configured, is told
// the outcome. Webhook failures are logged and never fail the build.
func (c *BuildCmd) Run(ctx context.Context, rt *Runtime) error {
	cfg, err := config.Load(rt.ConfigPath)
	if err != nil {
		return err
	}
	cfg = config.MergeConfig(c.overrides(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := rt.Logger
	webhook := notify.NewWebhook(cfg.Notify, nil, logger)

	res, err := c.run(ctx, cfg, rt)
	if err != nil {
		deliver(ctx, webhook, logger, notify.FailureEvent(err))
		return err
	}

	for _, event := range notify.SuccessEvents(res) {
		deliver(ctx, webhook, logger, event)
	}
	return nil
}

func (c *BuildCmd) run(ctx context.Context, cfg config.Config, rt *Runtime) (*builder.Result, error) {
	secret, err := secrets.Resolve(ctx, cfg.Secrets, rt.Logger)
	if err != nil {
		return nil, err
	}

	res, err := builder.New(cfg, secret,
		builder.WithOutput(rt.Stdout, rt.Stderr),
		builder.WithLogger(rt.Logger),
	).Run()
	if err != nil {
		return nil, err
	}

	if cfg.HooksDir != "" {
		outputDir, err := filepath.Abs(res.OutputDir)
		if err != nil {
			outputDir = res.OutputDir
		}
		env := []string{
			"BUILD_OUTPUT_DIR=" + outputDir,
			"BUILD_ENTRY_COUNT=" + strconv.Itoa(res.Entries),
		}
		err = utils.ExecuteHooks(ctx, cfg.HooksDir, env, utils.HookOptions{
			Stdout:  rt.Stdout,
			Stderr:  rt.Stderr,
			HideEnv: []string{cfg.Secrets.Env},
			Logger:  rt.Logger,
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Returns the flag values as a Config layer; unset flags stay empty.
func (c *BuildCmd) overrides() config.Config {
	return config.Config{
		OutputDir:    c.Output,
		TemplatePath: c.Template,
		SidecarPath:  c.Sidecar,
		AssetsDir:    c.Assets,
		Placeholder:  c.Placeholder,
		PreviewLen:   c.PreviewLen,
		HooksDir:     c.HooksDir,
		Secrets: config.SecretsConfig{
			Env: c.SecretEnv,
		},
	}
}

func deliver(ctx context.Context, webhook *notify.Webhook, logger *slog.Logger, event core.BuildEvent) {
	if err := webhook.Notify(ctx, event); err != nil {
		logger.WarnContext(ctx, "Build notification failed", "event", event.Type, "error", err)
	}
}
