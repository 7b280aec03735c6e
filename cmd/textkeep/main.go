package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/proofbound/textkeep/internal/app"
	"github.com/proofbound/textkeep/internal/config"
	"github.com/proofbound/textkeep/internal/export"
	"github.com/proofbound/textkeep/internal/store"
)

const dateLayout = "2006-01-02"

func main() {
	os.Exit(run())
}

func run() int {
	storeFlag := flag.String("store", "", "message store path (overrides config)")
	contactsFlag := flag.String("contacts", "", "address book path (overrides config)")
	listFlag := flag.Bool("list", false, "list all conversations")
	previewFlag := flag.String("preview", "", "conversation to preview (id or name)")
	limitFlag := flag.Int("limit", 0, "preview message cap (default from config)")
	exportFlag := flag.String("export", "", "conversation to export (id or name)")
	fromFlag := flag.String("from", "", "export start date, "+dateLayout)
	toFlag := flag.String("to", "", "export end date (inclusive), "+dateLayout)
	outFlag := flag.String("out", "", "export destination path (default {id}.md)")
	flag.Parse()

	var (
		cfg  *config.Config
		repo *store.Repository
		exp  *export.Exporter
	)
	fxApp := fx.New(
		app.Module(app.Params{StorePath: *storeFlag, AddressBookPath: *contactsFlag}),
		fx.NopLogger,
		fx.Populate(&cfg, &repo, &exp),
	)

	ctx := context.Background()
	if err := fxApp.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = fxApp.Stop(ctx) }()

	var err error
	switch {
	case *listFlag:
		err = runList(ctx, repo)
	case *previewFlag != "":
		limit := *limitFlag
		if limit <= 0 {
			limit = cfg.PreviewLimit
		}
		err = runPreview(ctx, repo, *previewFlag, limit)
	case *exportFlag != "":
		err = runExport(ctx, repo, exp, *exportFlag, *fromFlag, *toFlag, *outFlag)
	default:
		flag.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runList(ctx context.Context, repo *store.Repository) error {
	convs, err := repo.Conversations(ctx)
	if err != nil {
		return err
	}
	for _, c := range convs {
		kind := "contact"
		if c.IsGroup() {
			kind = "group"
		}
		fmt.Printf("%-40s  %-7s  %d participant(s)  [%s]\n",
			c.DisplayName(), kind, c.ParticipantCount(), c.ID())
	}
	return nil
}

func runPreview(ctx context.Context, repo *store.Repository, selector string, limit int) error {
	conv, err := findConversation(ctx, repo, selector)
	if err != nil {
		return err
	}
	msgs, err := repo.RecentMessages(ctx, conv, limit)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		sender := "Me"
		if !m.FromMe {
			sender = conv.DisplayName()
			if conv.IsGroup() {
				sender = m.SenderName
				if sender == "" {
					sender = "Unknown"
				}
			}
		}
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), sender, m.Text)
	}
	return nil
}

func runExport(ctx context.Context, repo *store.Repository, exp *export.Exporter, selector, from, to, out string) error {
	conv, err := findConversation(ctx, repo, selector)
	if err != nil {
		return err
	}

	var start, end time.Time
	if from != "" {
		if start, err = time.Parse(dateLayout, from); err != nil {
			return fmt.Errorf("parse -from: %w", err)
		}
	}
	if to != "" {
		if end, err = time.Parse(dateLayout, to); err != nil {
			return fmt.Errorf("parse -to: %w", err)
		}
		// Inclusive: cover the whole end day.
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	if out == "" {
		out = conv.ID() + ".md"
	}
	n, err := exp.Export(ctx, conv, start, end, out)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d message(s) to %s\n", n, out)
	return nil
}

// findConversation matches by exact ID first, then by case-insensitive
// display name.
func findConversation(ctx context.Context, repo *store.Repository, selector string) (store.Conversation, error) {
	convs, err := repo.Conversations(ctx)
	if err != nil {
		return store.Conversation{}, err
	}
	for _, c := range convs {
		if c.ID() == selector {
			return c, nil
		}
	}
	for _, c := range convs {
		if strings.EqualFold(c.DisplayName(), selector) {
			return c, nil
		}
	}
	return store.Conversation{}, fmt.Errorf("no conversation matches %q", selector)
}
