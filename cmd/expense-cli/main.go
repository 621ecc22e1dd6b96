// expense-cli is a terminal front end for the expense backend: a
// year-scoped expense table alongside a chat pane for recording
// expenses in plain language.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"expensetrack/internal/cli"
	"expensetrack/internal/client"
	"expensetrack/internal/format"
	"expensetrack/internal/log"
	"expensetrack/internal/view"
)

func main() {
	cfg, logger := cli.Setup(log.ComponentClient)

	api := client.New(cfg.BackendBaseURL, nil)
	co := view.NewCoordinator(api, api, nil)

	render := make(chan struct{}, 1)
	co.SetOnChange(func() {
		select {
		case render <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for range render {
			printSnapshot(co.Snapshot())
		}
	}()

	logger.Info("connected", "backend", cfg.BackendBaseURL)
	fmt.Println("Commands: year <YYYY>, refresh, quit, or any message to chat.")
	co.Periods.Refresh(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "quit" || line == "exit":
			return
		case line == "refresh":
			co.Periods.Refresh(ctx)
		case strings.HasPrefix(line, "year "):
			co.Periods.SelectPeriod(ctx, strings.TrimSpace(strings.TrimPrefix(line, "year ")))
		default:
			co.Chat.SetDraft(line)
			co.Chat.Submit(ctx)
		}
	}
}

func printSnapshot(snap view.Snapshot) {
	fmt.Println()
	fmt.Printf("== %s ==\n", periodLabel(snap))

	switch snap.Expenses.Phase {
	case view.Loading:
		fmt.Println("loading expenses...")
	case view.Failure:
		fmt.Printf("error: %s\n", snap.Expenses.Err)
	case view.Success:
		if len(snap.Expenses.Data) == 0 {
			fmt.Println("no expenses recorded")
		}
		for _, r := range snap.Expenses.Data {
			fmt.Printf("%-14s %12s  %s\n",
				format.Date(r.Date), format.SignedCurrency(r.Amount), r.Category)
		}
		fmt.Printf("total: %s across %d records\n",
			format.Currency(snap.Total), snap.RecordCount)
	}

	switch snap.Chat.Phase {
	case view.Loading:
		fmt.Println("chat: sending...")
	case view.Failure:
		fmt.Printf("chat error: %s\n", snap.Chat.Err)
	case view.Success:
		fmt.Printf("chat: %s\n", snap.Chat.Data)
	}
}

func periodLabel(snap view.Snapshot) string {
	for _, opt := range snap.PeriodOptions {
		if opt.Value == snap.Period {
			return opt.Label
		}
	}
	return snap.Period
}
