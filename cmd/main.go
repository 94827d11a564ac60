/*
Package main is the entry point for the roomchat terminal client.

It loads configuration, initializes the file-backed logger, and runs either the
interactive login and chat screens or, with -headless, a line-oriented client that
registers, prints roster and message updates, and sends each stdin line as a message.
Interrupt signals (SIGINT, SIGTERM) close the connection and exit.
*/
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"roomchat/internal/app/chat"
	"roomchat/internal/app/session"
	"roomchat/internal/configs"
	"roomchat/internal/pkg/logx"
	"roomchat/internal/pkg/randx"
	"roomchat/internal/tui"
)

func main() {
	headless := flag.Bool("headless", false, "run without the terminal UI, sending stdin lines as messages")
	username := flag.String("user", "", "username for -headless (a guest name is generated when empty)")
	flag.Parse()

	// Load configuration from .env and environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logOut, err := logx.OpenLogFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	defer logOut.Close()

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment(), logOut)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("server_url", cfg.ServerURL).
		Int("send_queue_size", cfg.SendQueueSize).
		Float64("send_rate", cfg.SendRate).
		Bool("headless", *headless).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	identity := session.NewIdentity()
	newSession := func(r session.Reader) *chat.Session {
		return chat.NewSession(r, chat.Options{
			ServerURL:      cfg.ServerURL,
			AvatarTemplate: cfg.AvatarURLTemplate,
			QueueSize:      cfg.SendQueueSize,
			DialTimeout:    cfg.DialTimeout,
			SendRate:       rate.Limit(cfg.SendRate),
			SendBurst:      cfg.SendBurst,
		})
	}

	if *headless {
		err = runHeadless(ctx, identity, *username, newSession)
	} else {
		err = runTUI(ctx, identity, newSession)
	}

	if err != nil {
		// the log may be a file, so tell the terminal too
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		logx.Fatal(err, "Client stopped with error")
	}

	logx.Info("Client stopped.")
}

func runTUI(ctx context.Context, identity *session.Identity, newSession tui.SessionFactory) error {
	app := tui.NewApp(ctx, identity, newSession)
	defer app.Close()

	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func runHeadless(ctx context.Context, identity *session.Identity, name string, newSession tui.SessionFactory) error {
	if strings.TrimSpace(name) == "" {
		guest, err := randx.GuestName()
		if err != nil {
			return err
		}
		name = guest
	}

	if err := identity.SetUsername(name); err != nil {
		return err
	}

	s := newSession(identity)
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(os.Stdout, "connected as %s\n", identity.Username())

	printer := &feedPrinter{out: os.Stdout}
	err := s.Run(ctx, readLines(os.Stdin), printer.print)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if s.Status() == chat.StatusDisconnected {
		fmt.Fprintln(os.Stdout, "disconnected from server")
	}
	return err
}

// readLines forwards stdin lines until EOF. The reader goroutine exits with the process.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// feedPrinter prints roster changes and messages it has not printed yet.
type feedPrinter struct {
	out        io.Writer
	lastRoster string
	printed    int
}

func (p *feedPrinter) print(state *chat.State) {
	names := make([]string, 0)
	for _, profile := range state.Roster() {
		names = append(names, profile.Name)
	}
	if roster := strings.Join(names, ", "); roster != p.lastRoster {
		fmt.Fprintf(p.out, "* users: %s\n", roster)
		p.lastRoster = roster
	}

	feed := state.Feed()
	for _, item := range feed[p.printed:] {
		if item.IsImage {
			fmt.Fprintf(p.out, "<%s> [image] %s\n", item.From, item.Body)
		} else {
			fmt.Fprintf(p.out, "<%s> %s\n", item.From, item.Body)
		}
	}
	p.printed = len(feed)
}
