package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"pregnancy-nutrition-be/internal/bootstrap"
	"pregnancy-nutrition-be/internal/config"
	"pregnancy-nutrition-be/pkg/answer"
	"pregnancy-nutrition-be/pkg/answer/resolver"

	"github.com/fatih/color"
)

var (
	trimester = flag.String("trimester", "", "Trimester: 1, 2 or 3")
	region    = flag.String("region", "", "Region: north, south, east or west")
	diet      = flag.String("diet", "", "Diet: vegetarian, non_vegetarian, eggetarian or vegan")
	condition = flag.String("condition", "", "Health condition, e.g. gestational_diabetes")
	clientID  = flag.String("client", "cli", "Client id used for rate limiting")
	showSteps = flag.Bool("steps", false, "Print every tier the engine tried")
)

// stepPrinter shows the tier trail of each resolution
type stepPrinter struct{}

func (stepPrinter) Observe(_ context.Context, o resolver.Outcome) {
	if !*showSteps {
		return
	}
	for _, s := range o.Steps {
		line := fmt.Sprintf("  %-13s %-12s %s", s.Tier, s.Status, s.Provider)
		if s.Reason != "" {
			line += " (" + s.Reason + ")"
		}
		color.HiBlack(line)
	}
}

func main() {
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}

	container := bootstrap.NewContainer(cfg, resolver.WithObserver(stepPrinter{}))
	defer container.Close()

	ctx := context.Background()

	if flag.NArg() > 0 {
		if !ask(ctx, container.Engine, strings.Join(flag.Args(), " ")) {
			os.Exit(1)
		}
		return
	}

	color.Cyan("🤰 Pregnancy nutrition assistant. Type a question, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		}
		ask(ctx, container.Engine, line)
	}
}

func ask(ctx context.Context, engine *resolver.Engine, question string) bool {
	res, err := engine.Resolve(ctx, resolver.Request{
		Question: question,
		Context: answer.RawContext{
			Trimester: *trimester,
			Region:    *region,
			Diet:      *diet,
			Condition: *condition,
		},
		ClientID: *clientID,
	})

	switch {
	case errors.Is(err, answer.ErrRateLimited):
		color.Red("Rate limit reached, wait a minute and try again")
		return false
	case errors.Is(err, answer.ErrEmptyTerminalAnswer):
		color.Yellow("Warning: %v", err)
	case err != nil:
		color.Red("Failed: %v", err)
		return false
	}

	r := res.Response
	tier := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Printf("%s %s  %s %dms\n", tier(r.SourceTier), r.Provider, cacheLabel(r.CacheHit), r.ElapsedMs())
	if r.Guidance.QueryReflection != "" {
		color.HiBlack(r.Guidance.QueryReflection)
	}
	fmt.Println(r.AnswerText)
	for _, item := range r.Guidance.Dos {
		color.Green("  ✓ %s", item)
	}
	for _, item := range r.Guidance.Donts {
		color.Red("  ✗ %s", item)
	}
	if r.Disclaimer {
		color.Yellow("\n%s", answer.MedicalDisclaimer)
	}
	fmt.Println()
	return true
}

func cacheLabel(hit bool) string {
	if hit {
		return color.MagentaString("[cached]")
	}
	return ""
}
