// Package electioncmd implements this tool's commands: running the council
// election engine once and printing a Markdown report, or serving results
// continuously over HTTP.
package electioncmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/rbochenek/liberland-vote-scope/cli/options"
	"github.com/rbochenek/liberland-vote-scope/pkg/apperr"
	appconfig "github.com/rbochenek/liberland-vote-scope/pkg/config"
	"github.com/rbochenek/liberland-vote-scope/pkg/datasource"
	"github.com/rbochenek/liberland-vote-scope/pkg/election"
	"github.com/rbochenek/liberland-vote-scope/pkg/httpapi"
	"github.com/rbochenek/liberland-vote-scope/pkg/identity"
	"github.com/rbochenek/liberland-vote-scope/pkg/markdown"
	"github.com/rbochenek/liberland-vote-scope/pkg/phragmen"
	"github.com/rbochenek/liberland-vote-scope/pkg/result"
	"github.com/rbochenek/liberland-vote-scope/pkg/snapshot"
)

// NewCommands returns the "elections" and "serve" commands.
func NewCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "elections",
			Usage:     "Run the council election engine once and print a Markdown report",
			UsageText: "liberland-vote-scope elections [--uri ws-url] [--at block-hash] [--output file] [--verbose]",
			Action:    runElections,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "uri", Usage: "Chain WebSocket RPC endpoint"},
				&cli.StringFlag{Name: "at", Usage: "Block hash to run the election at (latest block if not set)"},
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file for the Markdown report (stdout if not given)"},
				options.Debug,
				options.ForceTimestampLogs,
			},
		},
		{
			Name:      "serve",
			Usage:     "Serve council election results over HTTP",
			UsageText: "liberland-vote-scope serve [--uri ws-url] [--listen addr] [--verbose]",
			Action:    runServe,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "uri", Usage: "Chain WebSocket RPC endpoint"},
				&cli.StringFlag{Name: "listen", Usage: "HTTP listen address"},
				options.Debug,
				options.ForceTimestampLogs,
			},
		},
	}
}

func loadConfig(ctx *cli.Context) appconfig.Config {
	cfg := appconfig.Default()
	if uri := ctx.String("uri"); uri != "" {
		cfg.ChainURI = uri
	}
	return cfg
}

func runElections(ctx *cli.Context) error {
	cfg := loadConfig(ctx)
	log, _, closeLog, err := options.HandleLoggingParams(ctx, cfg.Logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closeLog()

	runCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	source, err := datasource.Dial(runCtx, cfg.ChainURI, cfg.RequestTimeout)
	if err != nil {
		log.Error("dial chain data source", zap.Error(err))
		return cli.Exit(err, 2)
	}
	defer source.Close()

	var blockHash *datasource.BlockHash
	if at := ctx.String("at"); at != "" {
		h, err := parseBlockHashFlag(at)
		if err != nil {
			return cli.Exit(err, 1)
		}
		blockHash = &h
	}

	snap, err := source.Fetch(runCtx, blockHash)
	if err != nil {
		log.Error("fetch election snapshot", zap.Error(err))
		return cli.Exit(err, 2)
	}

	in := snapshot.Prepare(snap)
	run, err := phragmen.Run(in)
	if err != nil {
		log.Error("run election engine", zap.Error(err))
		return cli.Exit(err, 3)
	}
	if run.Saturated {
		log.Warn("arithmetic saturation occurred during election run",
			zap.Error(apperr.New(apperr.KindEngineSaturation, "score arithmetic reached the saturation ceiling")))
	}

	res := result.Assemble(snap, in, run)

	resolver, err := identity.NewCachedResolver(noOpResolver{}, cfg.IdentityCacheSize)
	if err != nil {
		log.Warn("identity resolver disabled", zap.Error(err))
	} else {
		result.ResolveIdentities(runCtx, &res, resolver)
	}

	report := markdown.Generate(snap, res, run.Trace)

	out := ctx.String("output")
	if out == "" {
		fmt.Print(report)
		return nil
	}
	return os.WriteFile(out, []byte(report), 0644)
}

func runServe(ctx *cli.Context) error {
	cfg := loadConfig(ctx)
	if listen := ctx.String("listen"); listen != "" {
		cfg.ListenAddr = listen
	}
	log, _, closeLog, err := options.HandleLoggingParams(ctx, cfg.Logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closeLog()

	dialCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	source, err := datasource.Dial(dialCtx, cfg.ChainURI, cfg.RequestTimeout)
	cancel()
	if err != nil {
		log.Error("dial chain data source", zap.Error(err))
		return cli.Exit(err, 2)
	}
	defer source.Close()

	resolver, err := identity.NewCachedResolver(noOpResolver{}, cfg.IdentityCacheSize)
	if err != nil {
		log.Warn("identity resolver disabled", zap.Error(err))
		resolver = nil
	}

	srv := &httpapi.Server{Source: source, Resolver: resolverOrNil(resolver), Log: log}
	log.Info("listening", zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, srv.Handler())
}

func resolverOrNil(r *identity.CachedResolver) identity.Resolver {
	if r == nil {
		return nil
	}
	return r
}

// noOpResolver never resolves a display name. It stands in until a real
// identity.Resolver backed by chain identity pallet storage is wired.
type noOpResolver struct{}

func (noOpResolver) DisplayNameOf(context.Context, election.AccountID) (string, bool) {
	return "", false
}

func parseBlockHashFlag(s string) (datasource.BlockHash, error) {
	var h datasource.BlockHash
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return h, apperr.Wrap(apperr.KindPresentation, fmt.Sprintf("parse block hash %q", s), err)
	}
	if len(raw) != len(h) {
		return h, apperr.New(apperr.KindPresentation, fmt.Sprintf("block hash %q has wrong length", s))
	}
	copy(h[:], raw)
	return h, nil
}
