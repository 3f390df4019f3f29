package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"devhubtrader.app/forge/common/id"
	"devhubtrader.app/forge/internal/compose"
	"devhubtrader.app/forge/internal/extract"
	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/naming"
	"devhubtrader.app/forge/internal/service"
)

// backend is what commands that touch the database need.
type backend struct {
	services *service.Services
	close    func()
}

// opener connects lazily so offline commands work without a database.
type opener func(ctx context.Context) (*backend, error)

func newCLIApp(open opener) *cli.App {
	app := &cli.App{
		Name:    "forgectl",
		Usage:   "Operate the forge robot version generator",
		Version: Version,
		Commands: []*cli.Command{
			allocateCmd(),
			extractCmd(),
			composeCmd(),
			generateCmd(open),
			balanceCmd(open),
			creditCmd(open),
			profileCmd(open),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func allocateCmd() *cli.Command {
	return &cli.Command{
		Name:  "allocate",
		Usage: "Show the name a new version would get",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base", Aliases: []string{"b"}, Usage: "Desired name (defaults to the next ordinal)"},
			&cli.StringSliceFlag{Name: "existing", Aliases: []string{"e"}, Usage: "Names already taken"},
			&cli.IntFlag{Name: "max-attempts", Value: naming.DefaultMaxAttempts, Usage: "Candidates tried before the timestamp fallback"},
		},
		Action: func(c *cli.Context) error {
			existing := c.StringSlice("existing")
			base := c.String("base")
			if base == "" {
				base = naming.NextOrdinal(existing)
			}
			alloc := naming.NewAllocator().Allocate(base, existing, c.Int("max-attempts"))
			return outputJSON(c.App.Writer, alloc)
		},
	}
}

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Parse an assistant reply read from stdin",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "timeframe", Usage: "Timeframe picked in the guided form"},
			&cli.StringSliceFlag{Name: "asset", Usage: "Asset picked in the guided form"},
		},
		Action: func(c *cli.Context) error {
			reply, err := io.ReadAll(c.App.Reader)
			if err != nil {
				return cli.Exit(fmt.Sprintf("reading reply: %v", err), 1)
			}
			result := extract.Extract(string(reply), extract.Hints{
				Timeframes: c.StringSlice("timeframe"),
				Assets:     c.StringSlice("asset"),
			})
			return outputJSON(c.App.Writer, result)
		},
	}
}

func composeCmd() *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "Print the message that would be sent to the assistant",
		Flags: append(requestFlags(),
			&cli.StringFlag{Name: "code-file", Usage: "Current robot code (optimize and fix)"},
		),
		Action: func(c *cli.Context) error {
			req := compose.Request{
				Operation:          model.Operation(c.String("operation")),
				UserText:           c.String("message"),
				Guided:             guidedFromFlags(c),
				ProblemDescription: c.String("problem"),
			}
			if req.Operation == "" {
				req.Operation = compose.InferOperation(req.UserText)
			}
			if path := c.String("code-file"); path != "" {
				code, err := os.ReadFile(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("reading code: %v", err), 1)
				}
				req.Current = &compose.SourceVersion{Code: string(code)}
			}
			_, err := fmt.Fprintln(c.App.Writer, compose.Compose(req))
			return err
		},
	}
}

func generateCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a version inline and commit it",
		Flags: append(requestFlags(),
			&cli.StringFlag{Name: "account", Required: true, Usage: "Account that pays for the generation"},
			&cli.StringFlag{Name: "robot", Required: true, Usage: "Robot to add the version to"},
			&cli.StringFlag{Name: "source-version", Usage: "Version to optimize or fix"},
		),
		Action: func(c *cli.Context) error {
			accountID, err := parseIDFlag(c, "account")
			if err != nil {
				return err
			}
			robotID, err := parseIDFlag(c, "robot")
			if err != nil {
				return err
			}
			req := service.GenerateRequest{
				AccountID:          accountID,
				RobotID:            robotID,
				Operation:          model.Operation(c.String("operation")),
				UserText:           c.String("message"),
				Guided:             guidedFromFlags(c),
				ProblemDescription: c.String("problem"),
			}
			if c.IsSet("source-version") {
				sourceID, err := parseIDFlag(c, "source-version")
				if err != nil {
					return err
				}
				req.SourceVersionID = &sourceID
			}

			b, err := open(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer b.close()

			outcome, err := b.services.Generations().Generate(c.Context, req)
			if outcome != nil {
				if outErr := outputJSON(c.App.Writer, outcome); outErr != nil {
					return outErr
				}
			}
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func balanceCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "balance",
		Usage: "Show an account's token balance and recent ledger entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "account", Required: true},
		},
		Action: func(c *cli.Context) error {
			accountID, err := parseIDFlag(c, "account")
			if err != nil {
				return err
			}
			b, err := open(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer b.close()

			balance, err := b.services.Ledger().Balance(c.Context, accountID)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return outputJSON(c.App.Writer, balance)
		},
	}
}

func creditCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "credit",
		Usage: "Add tokens to an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "account", Required: true},
			&cli.Int64Flag{Name: "amount", Required: true},
			&cli.StringFlag{Name: "reason", Value: string(model.LedgerReasonTopUp), Usage: "top_up|adjustment"},
		},
		Action: func(c *cli.Context) error {
			accountID, err := parseIDFlag(c, "account")
			if err != nil {
				return err
			}
			reason := model.LedgerReason(c.String("reason"))
			if reason != model.LedgerReasonTopUp && reason != model.LedgerReasonAdjustment {
				return cli.Exit(fmt.Sprintf("unsupported reason %q", reason), 1)
			}
			b, err := open(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer b.close()

			entry, err := b.services.Ledger().Credit(c.Context, accountID, c.Int64("amount"), reason)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return outputJSON(c.App.Writer, entry)
		},
	}
}

func profileCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Create an account profile if it does not exist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "account", Required: true},
			&cli.StringFlag{Name: "name", Usage: "Display name"},
		},
		Action: func(c *cli.Context) error {
			accountID, err := parseIDFlag(c, "account")
			if err != nil {
				return err
			}
			b, err := open(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer b.close()

			profile, err := b.services.Ledger().EnsureProfile(c.Context, accountID, c.String("name"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return outputJSON(c.App.Writer, profile)
		},
	}
}

func requestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "operation", Aliases: []string{"o"}, Usage: "create|optimize|fix (inferred from the message when empty)"},
		&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Free-text request"},
		&cli.StringFlag{Name: "problem", Usage: "What is wrong with the code (fix)"},
		&cli.StringFlag{Name: "strategy", Usage: "Guided form: strategy"},
		&cli.StringSliceFlag{Name: "timeframe", Usage: "Guided form: timeframe id such as M5"},
		&cli.StringSliceFlag{Name: "asset", Usage: "Guided form: ticker such as WINFUT"},
		&cli.StringFlag{Name: "risk", Usage: "Guided form: risk level"},
		&cli.StringFlag{Name: "details", Usage: "Guided form: additional details"},
	}
}

func guidedFromFlags(c *cli.Context) *model.GuidedFields {
	g := &model.GuidedFields{
		Strategy:          c.String("strategy"),
		Timeframes:        upper(c.StringSlice("timeframe")),
		Assets:            upper(c.StringSlice("asset")),
		RiskLevel:         c.String("risk"),
		AdditionalDetails: c.String("details"),
	}
	if g.IsEmpty() {
		return nil
	}
	return g
}

func parseIDFlag(c *cli.Context, name string) (int64, error) {
	v, err := id.Parse(c.String(name))
	if err != nil {
		return 0, cli.Exit(fmt.Sprintf("invalid --%s: %v", name, err), 1)
	}
	return v, nil
}

func upper(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.ToUpper(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
