package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/topi314/strava-challenge/internal/xio"
	"github.com/topi314/strava-challenge/internal/xslog"
	"github.com/topi314/strava-challenge/internal/xtime"
	"github.com/topi314/strava-challenge/server"
	"github.com/topi314/strava-challenge/server/database"
	"github.com/topi314/strava-challenge/server/scoring"
	"github.com/topi314/strava-challenge/server/strava"
)

const usage = `Usage: strava-challenge [--config config.toml] <command> [flags]

Commands:
  run            import activities periodically and publish the leaderboard
  import         import activities once
  leaderboard    print the leaderboard
  auth-url       print the Strava authorization link for a Discord user
  auth-exchange  connect an athlete with the code from the authorization redirect
  results add    add a manual category result
  results delete remove a manual category result
  payments       print what every athlete owes for missed weekly minimums
  athletes       list connected athletes and the last import
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		slog.Error("Command failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("strava-challenge", flag.ContinueOnError)
	fs.Usage = func() {}
	cfgPath := fs.String("config", "config.toml", "path to the config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := server.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	setupLogger(cfg.Log)
	slog.Debug("Config loaded", slog.String("config", cfg.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command, commandArgs := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "auth-url":
		return authURL(cfg, commandArgs)
	case "run", "import", "leaderboard", "auth-exchange", "results", "payments", "athletes":
	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}

	srv, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	switch command {
	case "run":
		slog.InfoContext(ctx, "Starting strava-challenge", slog.Int("season", cfg.Season))
		srv.Run(ctx)
		slog.InfoContext(ctx, "Stopped strava-challenge")
		return nil
	case "import":
		_, err = srv.Import(ctx)
		return err
	case "leaderboard":
		return leaderboard(ctx, srv, commandArgs)
	case "auth-exchange":
		return authExchange(ctx, srv, commandArgs)
	case "results":
		return results(ctx, srv, commandArgs)
	case "payments":
		return payments(ctx, srv, commandArgs)
	default:
		return athletes(ctx, srv)
	}
}

func setupLogger(cfg server.LogConfig) {
	opts := &slog.HandlerOptions{
		AddSource: cfg.AddSource,
		Level:     cfg.Level,
	}
	var handler slog.Handler
	if cfg.Format == server.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	if !cfg.VerboseHTTP {
		handler = xslog.NewFilterHandler(handler, xslog.DropDebugWithAttr("client", "strava"))
	}
	slog.SetDefault(slog.New(handler))
}

func leaderboard(ctx context.Context, srv *server.Server, args []string) error {
	fs := flag.NewFlagSet("leaderboard", flag.ContinueOnError)
	seasonFlag := fs.String("season", "", "season year, defaults to the configured season")
	asJSON := fs.Bool("json", false, "print the leaderboard as JSON")
	asCSV := fs.Bool("csv", false, "print the leaderboard as CSV with the points per category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	season, err := seasonOrDefault(srv, *seasonFlag)
	if err != nil {
		return err
	}

	standings, err := srv.Leaderboard(ctx, season)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(standings)
	}
	if *asCSV {
		return server.ExportCSV(os.Stdout, standings, srv.Engine().Rules().Categories)
	}
	printStandings(os.Stdout, standings, srv.Engine().Rules())
	return nil
}

func printStandings(w io.Writer, standings *server.Standings, rules scoring.Rules) {
	bold := color.New(color.Bold)
	prized := color.New(color.FgYellow, color.Bold)

	elapsed, remaining := xtime.SeasonProgress(standings.Season, standings.UpdatedAt)
	bold.Fprintf(w, "Leaderboard %d", standings.Season)
	fmt.Fprintf(w, "  day %d, %d days left, best %d categories count\n", elapsed, remaining, rules.TopCategories)
	if standings.Summary != nil {
		fmt.Fprintf(w, "%d athletes, %d activities, %s moving, %.1f km\n",
			standings.Summary.Athletes,
			standings.Summary.Activities,
			xtime.FormatMovingTime(time.Duration(standings.Summary.MovingTime)*time.Second),
			standings.Summary.Distance/1000,
		)
	}
	fmt.Fprintln(w)

	if len(standings.Leaderboard) == 0 {
		fmt.Fprintln(w, "No results yet.")
		return
	}

	bold.Fprintf(w, "%4s  %-24s %6s %10s %8s\n", "#", "Participant", "Points", "Moving", "Prize")
	for i, entry := range standings.Leaderboard {
		line := fmt.Sprintf("%4d  %-24s %6d %10s %8d\n", entry.Position, entry.Participant, entry.Total, xtime.FormatMovingTime(entry.MovingTime), standings.Prizes[i])
		if standings.Prizes[i] > 0 {
			prized.Fprint(w, line)
			continue
		}
		fmt.Fprint(w, line)
	}
}

func authURL(cfg server.Config, args []string) error {
	fs := flag.NewFlagSet("auth-url", flag.ContinueOnError)
	discordID := fs.String("discord-id", "", "Discord user ID to link the athlete to")
	qrPath := fs.String("qr", "", "write the link as a PNG QR code to this file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client := strava.New(cfg.Strava, http.DefaultClient)
	srv := &server.Server{Cfg: cfg, Strava: client}
	link := srv.AuthURL(*discordID)

	if *qrPath == "" {
		fmt.Println(link)
		return nil
	}

	qr, err := qrcode.New(link)
	if err != nil {
		return fmt.Errorf("failed to create qrcode: %w", err)
	}

	var wc io.WriteCloser
	if *qrPath == "-" {
		wc = xio.NopWriteCloser(os.Stdout)
	} else {
		f, err := os.Create(*qrPath)
		if err != nil {
			return fmt.Errorf("failed to create qrcode file: %w", err)
		}
		wc = f
	}

	qrW := standard.NewWithWriter(wc,
		standard.WithBgTransparent(),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	defer func() {
		_ = qrW.Close()
	}()
	if err = qr.Save(qrW); err != nil {
		return fmt.Errorf("failed to save qrcode: %w", err)
	}

	if *qrPath != "-" {
		fmt.Println(link)
	}
	return nil
}

func authExchange(ctx context.Context, srv *server.Server, args []string) error {
	fs := flag.NewFlagSet("auth-exchange", flag.ContinueOnError)
	code := fs.String("code", "", "code from the authorization redirect")
	discordID := fs.String("discord-id", "", "Discord user ID to link the athlete to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *code == "" {
		return fmt.Errorf("--code is required: %w", errUsage)
	}

	athlete, err := srv.ConnectAthlete(ctx, *code, *discordID)
	if err != nil {
		return err
	}
	fmt.Printf("Connected %s (%d)\n", athlete.DisplayName, athlete.ID)
	return nil
}

func results(ctx context.Context, srv *server.Server, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("results needs a subcommand: %w", errUsage)
	}
	switch args[0] {
	case "add":
		return resultsAdd(ctx, srv, args[1:])
	case "delete":
		return resultsDelete(ctx, srv, args[1:])
	}
	return fmt.Errorf("unknown results subcommand %q: %w", args[0], errUsage)
}

func resultsAdd(ctx context.Context, srv *server.Server, args []string) error {
	fs := flag.NewFlagSet("results add", flag.ContinueOnError)
	seasonFlag := fs.String("season", "", "season year, defaults to the configured season")
	participant := fs.String("participant", "", "participant name as shown on the leaderboard")
	category := fs.String("category", "", "category, e.g. bike or \"Alpine & Snow Sports\"")
	rank := fs.Int("rank", 0, "rank within the category, starting at 1")
	movingTime := fs.Duration("moving-time", 0, "moving time, e.g. 12h30m")
	if err := fs.Parse(args); err != nil {
		return err
	}

	season, err := seasonOrDefault(srv, *seasonFlag)
	if err != nil {
		return err
	}

	result, err := srv.AddManualResult(ctx, season, *participant, *category, *rank, *movingTime)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s: rank %d in %s (%d)\n", result.Participant, result.Rank, scoring.Category(result.Category), result.Season)
	return nil
}

func resultsDelete(ctx context.Context, srv *server.Server, args []string) error {
	fs := flag.NewFlagSet("results delete", flag.ContinueOnError)
	seasonFlag := fs.String("season", "", "season year, defaults to the configured season")
	participant := fs.String("participant", "", "participant name the result was added for")
	category := fs.String("category", "", "category of the result")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *participant == "" || *category == "" {
		return fmt.Errorf("--participant and --category are required: %w", errUsage)
	}

	season, err := seasonOrDefault(srv, *seasonFlag)
	if err != nil {
		return err
	}

	if err = srv.DeleteManualResult(ctx, season, *participant, *category); err != nil {
		return err
	}
	fmt.Printf("Deleted the %s result of %s (%d)\n", *category, *participant, season)
	return nil
}

func payments(ctx context.Context, srv *server.Server, args []string) error {
	fs := flag.NewFlagSet("payments", flag.ContinueOnError)
	seasonFlag := fs.String("season", "", "season year, defaults to the configured season")
	asJSON := fs.Bool("json", false, "print the payments as JSON")
	send := fs.Bool("send", false, "post the payments to the notification webhook")
	if err := fs.Parse(args); err != nil {
		return err
	}

	season, err := seasonOrDefault(srv, *seasonFlag)
	if err != nil {
		return err
	}

	summary, err := srv.Payments(ctx, season, time.Now())
	if err != nil {
		return err
	}

	if *send {
		if err = srv.SendPayments(ctx, summary); err != nil {
			return err
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printPayments(os.Stdout, summary)
	return nil
}

func printPayments(w io.Writer, summary *server.PaymentSummary) {
	bold := color.New(color.Bold)
	owes := color.New(color.FgRed)

	bold.Fprintf(w, "Payments %d up to week %d\n", summary.Season, summary.Week-1)
	for _, p := range summary.Payments {
		if p.Amount == 0 {
			fmt.Fprintf(w, "%-24s nothing\n", p.Participant)
			continue
		}
		owes.Fprintf(w, "%-24s %d %s", p.Participant, p.Amount, summary.Currency)
		fmt.Fprintf(w, "  weeks %v", p.MissedWeeks)
		if len(p.JokerWeeks) > 0 {
			fmt.Fprintf(w, "  jokers %v", p.JokerWeeks)
		}
		fmt.Fprintln(w)
	}
	bold.Fprintf(w, "Total %d %s\n", summary.Total, summary.Currency)
}

func seasonOrDefault(srv *server.Server, value string) (int, error) {
	if value == "" {
		return srv.Cfg.Season, nil
	}
	return xtime.ParseSeason(value)
}

func athletes(ctx context.Context, srv *server.Server) error {
	list, err := srv.DB.GetAthletes(ctx, true)
	if err != nil {
		return err
	}

	disabled := color.New(color.FgRed)
	for _, athlete := range list {
		line := fmt.Sprintf("%-12d %-24s discord=%s token_expiry=%s\n", athlete.ID, athlete.DisplayName, athlete.DiscordUserID, athlete.TokenExpiry.Format(time.DateTime))
		if athlete.Disabled {
			disabled.Fprint(os.Stdout, "[disabled] "+line)
			continue
		}
		fmt.Print(line)
	}

	run, err := srv.DB.GetLastImportRun(ctx, srv.Cfg.Season)
	if errors.Is(err, database.ErrNotFound) {
		fmt.Println("\nNo import finished yet")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nLast import %s: %d athletes, %d activities\n", run.FinishedAt.Format(time.DateTime), run.Athletes, run.Activities)
	if run.Error != "" {
		color.New(color.FgRed).Println(run.Error)
	}
	return nil
}
