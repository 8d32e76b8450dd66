package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tessdl/internal/config"
	"tessdl/internal/downloader"
	"tessdl/internal/fetch"
	"tessdl/internal/observability"
	"tessdl/internal/proxy"
	"tessdl/internal/remote"
	"tessdl/internal/ui"
	"tessdl/pkg/errors"
	"tessdl/pkg/models"
)

// options holds the action flags that are not settings
type options struct {
	cfgFile    string
	version    bool
	listRepos  bool
	listTags   bool
	listFiles  bool
	lang       string
	saveConfig bool
}

func (o *options) hasAction() bool {
	return o.version || o.listRepos || o.listTags || o.listFiles || o.lang != "" || o.saveConfig
}

func (o *options) needsNetwork() bool {
	return o.listTags || o.listFiles || o.lang != ""
}

// NewRootCmd builds the tessdl command with its own viper instance
func NewRootCmd() *cobra.Command {
	v := viper.New()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "tessdl",
		Short: "Download Tesseract traineddata files",
		Long: description() + `

Lists the tesseract-ocr traineddata repositories, their tags and files, and
downloads all files of one language code into a tessdata directory.`,
		Example: `  tessdl --list-tags
  tessdl -r tessdata_fast --list-files
  tessdl -l eng -o /usr/share/tesseract-ocr/5/tessdata`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, opts.cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.version, "version", "v", false, "Print version info")
	flags.StringP("output-dir", "o", ".", "Directory to store downloaded files (default: $TESSDATA_PREFIX, otherwise the current directory)")
	flags.VarP(newRepositoryValue(models.DefaultRepository), "repository", "r", "Repository to use: "+models.RepositoryNames())
	flags.StringP("tag", "t", models.LatestTag, "Repository tag, 'latest' for the head of the default branch")
	flags.BoolVar(&opts.listRepos, "list-repos", false, "Display the list of repositories")
	flags.BoolVar(&opts.listTags, "list-tags", false, "Display the tags of all repositories")
	flags.BoolVar(&opts.listFiles, "list-files", false, "Display the files of --repository at --tag")
	flags.StringVarP(&opts.lang, "lang", "l", "", "Language or data code of the traineddata files to download")
	flags.String("proxy", "", "Proxy to use, host:port or a URL")
	flags.String("proxy-user", "", "Proxy credentials, user or user:password")
	flags.StringVar(&opts.cfgFile, "config", "", "Config file (default: $TESSDL_CONFIG or ~/.tessdl/config.yaml)")
	flags.String("log-level", "warn", "Diagnostic log level: debug, info, warn, error")
	flags.Bool("verbose", false, "Verbose output and debug logging")
	flags.BoolVar(&opts.saveConfig, "save-config", false, "Save the repository, output directory and proxy settings as defaults")
	flags.String("api-url", config.DefaultAPIURL, "GitHub API root")
	_ = flags.MarkHidden("api-url")

	bindings := map[string]string{
		config.KeyOutputDir:     "output-dir",
		config.KeyRepository:    "repository",
		config.KeyTag:           "tag",
		config.KeyProxyURL:      "proxy",
		config.KeyProxyUsername: "proxy-user",
		config.KeyLogLevel:      "log-level",
		config.KeyVerbose:       "verbose",
		config.KeyAPIURL:        "api-url",
	}
	for key, name := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

// Execute runs the root command and exits 1 on error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		observability.GetDefaultLogger().WithField("code", string(errors.GetErrorCode(err))).
			ErrorWithFields("command failed", nil)
		ui.ShowError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func initConfig(v *viper.Viper, cfgFile string) error {
	config.Setup(v)
	if err := config.ReadConfigFile(v, cfgFile); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to read config file").
			WithContext("file", v.ConfigFileUsed())
	}
	return nil
}

func setupLogging(w io.Writer, settings config.Settings) *observability.Logger {
	level := observability.LogLevelFromString(settings.LogLevel)
	if settings.Verbose {
		level = observability.DebugLevel
	}
	logger := observability.NewLogger(observability.LoggerConfig{
		Level:   level,
		Output:  w,
		Service: "tessdl",
		Version: Version,
	})
	observability.SetDefaultLogger(logger)
	return logger
}

func run(cmd *cobra.Command, v *viper.Viper, opts *options) error {
	out := cmd.OutOrStdout()
	if opts.version {
		printVersion(out)
		return nil
	}
	if !opts.hasAction() {
		return cmd.Help()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings := config.Resolve(v)
	logger := setupLogging(cmd.ErrOrStderr(), settings)
	logger.DebugWithFields("settings resolved", map[string]interface{}{
		"output_dir": settings.OutputDir,
		"repository": settings.Repository,
		"tag":        settings.Tag,
		"api_url":    settings.APIURL,
		"config":     v.ConfigFileUsed(),
	})

	u := ui.NewUI(out, settings.Verbose)

	proxyCfg, err := proxy.Parse(settings.Proxy, settings.ProxyUser)
	if err != nil {
		return err
	}

	if opts.saveConfig {
		if err := saveConfig(u, opts.cfgFile, settings, proxyCfg); err != nil {
			return err
		}
	}

	httpClient := proxyCfg.Client()
	client := remote.NewClient(
		remote.WithBaseURL(settings.APIURL),
		remote.WithHTTPClient(httpClient),
		remote.WithUserAgent("tessdl/"+Version),
		remote.WithLogger(logger),
	)

	if proxyCfg.Enabled() && opts.needsNetwork() {
		u.VerbosePrintf("Checking proxy %s\n", proxyCfg)
		if err := proxy.Probe(ctx, httpClient, proxyCfg, client.BaseURL()); err != nil {
			return err
		}
	}

	var confirm ui.Confirmer
	if in, ok := cmd.InOrStdin().(*os.File); ok {
		confirm = ui.NewConfirmer(in, out)
	} else {
		confirm = ui.NewLineConfirmer(cmd.InOrStdin(), out)
	}
	svc := downloader.NewService(client, fetch.NewFetcher(client, u, confirm), u)
	repo := models.Repository(settings.Repository)

	if opts.listRepos {
		svc.ListRepositories()
	}
	if opts.listTags {
		if err := svc.ListTags(ctx); err != nil {
			return err
		}
	}
	if opts.listFiles {
		if err := svc.ListFiles(ctx, repo, settings.Tag); err != nil {
			return err
		}
	}
	if opts.lang == "" {
		return nil
	}

	if err := downloader.CheckOutputDir(settings.OutputDir); err != nil {
		return err
	}
	summary, err := svc.DownloadLanguage(ctx, repo, settings.Tag, opts.lang, settings.OutputDir)
	if err != nil {
		return err
	}
	if summary.Matched > 0 {
		u.VerbosePrintf("%d file(s) matched: %d downloaded, %d skipped, %d with unexpected size, %d failed\n",
			summary.Matched, summary.Downloaded, summary.Skipped, summary.SizeMismatch, summary.Failed)
	}
	return nil
}

// saveConfig writes the defaults to cfgFile, or to the default config file
func saveConfig(u *ui.UI, cfgFile string, settings config.Settings, proxyCfg *proxy.Config) error {
	cfg := settings.ToConfig(proxyCfg)
	path := cfgFile
	var err error
	if path == "" {
		path = config.GetConfigFile()
		err = config.Save(cfg)
	} else {
		err = config.SaveFile(path, cfg)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigWrite, "Failed to save configuration").
			WithContext("file", path)
	}
	if err := proxyCfg.SavePassword(); err != nil {
		return err
	}
	u.Success(fmt.Sprintf("Configuration saved to %s", path))
	return nil
}
