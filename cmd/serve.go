package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/drillbot/internal/bot"
	"github.com/example/drillbot/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the reminder scheduler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.cfg.Validate(); err != nil {
			return err
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		botConfig := bot.DefaultConfig()
		botConfig.MinSample = a.cfg.SessionMinSample
		botConfig.AdminUserIDs = a.cfg.AdminUserIDs
		b := bot.New(a.cfg.TelegramToken, a.learners, a.records, a.domains, botConfig)

		if a.cfg.EnableScheduler {
			s := scheduler.New(b, a.learners, a.records, a.domains, a.cfg.SchedulerConfig())
			if err := s.Start(); err != nil {
				return errors.Wrap(err, "failed to start reminder scheduler")
			}
			defer s.Stop()
			b.SetScheduler(s)
			log.Println("Reminder scheduler started successfully")
		}

		// Wait for a signal and shut down gracefully
		done := make(chan struct{})
		go func() {
			sig := <-sigChan
			log.Printf("Received signal: %v", sig)
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := b.Stop(shutdownCtx); err != nil {
				log.Printf("Error during shutdown: %v", err)
			}
			close(done)
		}()

		log.Println("Bot started. Press Ctrl+C to stop.")
		errCh := make(chan error, 1)
		go func() {
			errCh <- b.Start(ctx)
		}()

		select {
		case <-done:
		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				// Cancelled by the signal handler, wait for it to finish
				<-done
			} else if err != nil {
				return errors.Wrap(err, "bot error")
			}
		}
		log.Println("Bot stopped successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
