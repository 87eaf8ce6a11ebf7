package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	sloggger "github.com/tftbot/tftbot/cmd/tftbot/log"
	"github.com/tftbot/tftbot/internal/action"
	"github.com/tftbot/tftbot/internal/bot"
	"github.com/tftbot/tftbot/internal/config"
	ct "github.com/tftbot/tftbot/internal/context"
	"github.com/tftbot/tftbot/internal/economy"
	"github.com/tftbot/tftbot/internal/event"
	"github.com/tftbot/tftbot/internal/game"
	"github.com/tftbot/tftbot/internal/health"
	"github.com/tftbot/tftbot/internal/lcu"
	"github.com/tftbot/tftbot/internal/platform"
	"github.com/tftbot/tftbot/internal/remote/desktop"
	"github.com/tftbot/tftbot/internal/remote/discord"
	"github.com/tftbot/tftbot/internal/remote/telegram"
	"github.com/tftbot/tftbot/internal/ui"
	"github.com/tftbot/tftbot/internal/utils"
	"github.com/tftbot/tftbot/internal/vision"
)

const storageDir = "config"

// wrapWithRecover wraps a function with panic recovery logic
func wrapWithRecover(logger *slog.Logger, f func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Sprintf("panic recovered: %v\nStacktrace: %s", r, debug.Stack()))
				sloggger.FlushLog()
			}
		}()
		return f()
	}
}

func main() {
	flags, err := config.ParseFlags(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	bootstrap := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := config.Load(storageDir, bootstrap)
	if err != nil {
		utils.ShowDialog("Error loading configuration", err.Error())
		log.Fatalf("Error loading configuration: %s", err.Error())
	}
	cfg.ApplyFlags(flags)

	logger, err := sloggger.NewLogger(cfg.Verbose, cfg.LogDirectory)
	if err != nil {
		if !utils.Confirm("Logging could not be set up", fmt.Sprintf("%s\n\nContinue without a log file?", err)) {
			os.Exit(1)
		}
	}
	defer sloggger.FlushAndClose()

	if !utils.Confirm("TFT Bot", fmt.Sprintf("Start the bot?\n\nPress %s at any time to pause or resume.", platform.HotkeyChord)) {
		logger.Info("Start cancelled by the operator")
		sloggger.FlushAndClose()
		os.Exit(1)
	}

	logger.Info("Starting",
		slog.String("version", config.Version),
		slog.Bool("forfeitEarly", cfg.ForfeitEarly),
		slog.Int("surrenderAfterStage", cfg.SurrenderAfterStage),
		slog.String("economy", cfg.Economy.Mode),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fatal error detected, the bot will close with the following error: %v\n Stacktrace: %s", r, debug.Stack())
			logger.Error(err.Error())
			sloggger.FlushAndClose()
			utils.ShowDialog("TFT Bot error", fmt.Sprintf("The bot will close due to an unexpected error, please check the latest log file for more info!\n %s", err.Error()))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	installLocation := cfg.OverrideInstallLocation
	if installLocation == "" {
		installLocation = game.DefaultInstallLocation
	}
	exes := game.NewExecutables(installLocation)

	window := platform.NewWindow(exes, logger)
	capture := platform.NewCapture()
	screen := vision.NewScreen(capture, vision.NewTemplateCache(), logger)

	botCtx := ct.NewContext(ct.Options{
		Logger:        logger,
		Cfg:           cfg,
		Templates:     ui.NewTemplates(cfg.AssetsDirectory),
		Perception:    screen,
		HID:           game.NewHID(platform.NewInput(), window),
		Window:        window,
		Screenshotter: capture,
		Executables:   exes,
	})

	var digits game.DigitReader
	if cfg.Economy.Mode == config.EconomyModeOCR {
		digits = vision.NewTesseract(cfg.Economy.TesseractLocation, capture)
	}
	settings, err := economy.SettingsFromConfig(cfg, digits)
	if err != nil {
		logger.Error("Invalid economy settings", slog.Any("error", err))
		return
	}
	strategy, err := economy.New(botCtx, settings)
	if err != nil {
		logger.Error("Economy strategy could not be created", slog.Any("error", err))
		return
	}

	eventListener := event.NewListener(logger)
	registerNotifiers(ctx, cfg, logger, eventListener)

	opts := bot.Options{
		Economy:      strategy,
		Connectivity: health.NewConnectivityMonitor(logger),
	}
	if cfg.ClientAPI.Enabled {
		client := lcu.NewClient(lcu.LockfilePath(installLocation), logger)
		opts.ClientAPI = client
		g.Go(wrapWithRecover(logger, func() error {
			return client.Watch(ctx)
		}))
	}
	controller := bot.NewController(botCtx, opts)

	action.CheckGameWindowSize(botCtx)

	g.Go(wrapWithRecover(logger, func() error {
		return eventListener.Listen(ctx)
	}))

	g.Go(wrapWithRecover(logger, func() error {
		err := platform.WatchHotkey(ctx, func() { controller.TogglePause() })
		if err != nil {
			logger.Warn("Pause hotkey is not available", slog.String("hotkey", platform.HotkeyChord), slog.Any("error", err))
		}
		return nil
	}))

	g.Go(wrapWithRecover(logger, func() error {
		defer cancel()
		return controller.Run(ctx)
	}))

	if err = g.Wait(); err != nil {
		logger.Error("Error running the bot", slog.Any("error", err))
		return
	}

	logger.Info("Bot stopped", slog.Int("games", controller.Stats().Games()))
}

func registerNotifiers(ctx context.Context, cfg *config.Cfg, logger *slog.Logger, l *event.Listener) {
	if cfg.Notifications.DiscordWebhook != "" {
		l.Register(discord.NewNotifier(cfg.Notifications.DiscordWebhook).Handle)
	}

	if cfg.Notifications.TelegramToken != "" {
		telegramBot, err := telegram.NewBot(ctx, cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID, logger)
		if err != nil {
			logger.Error("Telegram could not been initialized", slog.Any("error", err))
		} else {
			l.Register(telegramBot.Handle)
		}
	}

	if cfg.Notifications.Desktop {
		l.Register(desktop.NewNotifier().Handle)
	}
}
