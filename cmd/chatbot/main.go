package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ovh-ux/chatbot-core/pkg/botapi"
	"github.com/ovh-ux/chatbot-core/pkg/chatbot"
	"github.com/ovh-ux/chatbot-core/pkg/contextstore"
	"github.com/ovh-ux/chatbot-core/pkg/signals"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("chatbot exited with error")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatbot",
		Short: "Terminal harness for the chat widget core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	cmd.Flags().String("url", "", "bot backend base URL")
	cmd.Flags().String("universe", "", "universe for the automatic greeting")
	cmd.Flags().String("subsidiary", "", "subsidiary for the automatic greeting")
	cmd.Flags().String("context-db", "chatbot.db", "sqlite file holding the conversation context id")
	cmd.Flags().Duration("survey-delay", chatbot.DefaultSurveyDelay, "pause before the survey prompt appears")
	cmd.Flags().Bool("recover-banner-failure", false, "continue startup when the banner fetch fails")
	cmd.Flags().String("log-level", "info", "zerolog level")

	viper.SetEnvPrefix("CHATBOT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = viper.BindPFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context) error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	url := viper.GetString("url")
	if strings.TrimSpace(url) == "" {
		return errors.New("missing --url (or CHATBOT_URL)")
	}

	client, err := botapi.NewHTTPClient(botapi.Config{
		URL:        url,
		Universe:   viper.GetString("universe"),
		Subsidiary: viper.GetString("subsidiary"),
	})
	if err != nil {
		return err
	}

	dsn, err := contextstore.SQLiteDSNForFile(viper.GetString("context-db"))
	if err != nil {
		return err
	}
	store, err := contextstore.NewSQLiteStore(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := signals.NewBus(log.Logger)
	defer func() { _ = bus.Close() }()

	ctrl, err := chatbot.New(chatbot.Options{
		BaseCtx: ctx,
		Config: chatbot.Config{
			Enabled:              true,
			Universe:             viper.GetString("universe"),
			Subsidiary:           viper.GetString("subsidiary"),
			SurveyDelay:          viper.GetDuration("survey-delay"),
			RecoverBannerFailure: viper.GetBool("recover-banner-failure"),
		},
		Client: client,
		Store:  store,
		Bus:    bus,
	})
	if err != nil {
		return err
	}
	if err := ctrl.BindSignals(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g := new(errgroup.Group)
	g.Go(func() error { return watchOpened(ctx, bus) })
	g.Go(func() error {
		// Quitting the repl tears down the signal watcher too.
		defer cancel()
		return repl(ctx, ctrl)
	})
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchOpened logs widget-opened notifications the way an embedding page
// would react to them (focus the input, scroll to bottom).
func watchOpened(ctx context.Context, bus *signals.Bus) error {
	ch, err := bus.Subscribe(ctx, signals.TopicOpened)
	if err != nil {
		return err
	}
	for msg := range ch {
		log.Info().Str("state", string(msg.Payload)).Msg("widget opened")
		msg.Ack()
	}
	return nil
}

func repl(ctx context.Context, ctrl *chatbot.Controller) error {
	ctrl.Open(ctx)
	waitStarted(ctx, ctrl)
	printTranscript(ctrl)

	fmt.Println(`commands: /suggest <text>, /postback <text>, /survey yes|no [details], /close, /fullclose, /open, /quit`)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "/quit":
			return nil
		case line == "/open":
			ctrl.Open(ctx)
			waitStarted(ctx, ctrl)
		case line == "/close":
			ctrl.Close()
		case line == "/fullclose":
			ctrl.FullClose()
		case strings.HasPrefix(line, "/suggest "):
			if err := ctrl.Suggest(ctx, strings.TrimPrefix(line, "/suggest ")); err != nil {
				log.Warn().Err(err).Msg("suggest failed")
			}
			for _, s := range ctrl.Suggestions() {
				fmt.Printf("  ? %s\n", s)
			}
			continue
		case strings.HasPrefix(line, "/postback "):
			if err := ctrl.Postback(ctx, chatbot.PostbackChoice{Text: strings.TrimPrefix(line, "/postback ")}); err != nil {
				log.Warn().Err(err).Msg("postback failed")
			}
		case strings.HasPrefix(line, "/survey "):
			fields := strings.SplitN(strings.TrimPrefix(line, "/survey "), " ", 2)
			details := ""
			if len(fields) == 2 {
				details = fields[1]
			}
			if err := ctrl.AnswerSurvey(ctx, fields[0] == "yes", details); err != nil {
				log.Warn().Err(err).Msg("survey answer failed")
			}
		case line == "":
			continue
		default:
			if err := ctrl.Ask(ctx, line); err != nil {
				log.Warn().Err(err).Msg("ask failed")
			}
		}
		printTranscript(ctrl)
	}
	return scanner.Err()
}

// waitStarted gives the fire-and-forget start sequence a moment to settle so
// the first transcript print is not empty.
func waitStarted(ctx context.Context, ctrl *chatbot.Controller) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && ctx.Err() == nil {
		if ctrl.Started() && !ctrl.Loaders().IsStarting {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func printTranscript(ctrl *chatbot.Controller) {
	if banner := ctrl.Banner(); banner != "" {
		fmt.Printf("--- %s ---\n", banner)
	}
	for _, m := range ctrl.Messages() {
		if m.Quality == chatbot.QualityInvisible {
			continue
		}
		fmt.Printf("[%s] %-8s %s\n", m.Time, m.Type, m.Text)
		for _, r := range m.Rewords {
			fmt.Printf("             > %s\n", r)
		}
	}
}
