package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/humanmade/authorship/internal/domains/attribution"
	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/pkg/container"
	"github.com/humanmade/authorship/pkg/logger"
)

const (
	migrateBatchSize  = 100
	migrateBatchPause = 2 * time.Second
)

// newMigrateWPAuthorsCommand backfills the attribution relation from the
// native owner column. It runs in dry-run mode unless told otherwise.
func newMigrateWPAuthorsCommand() *cobra.Command {
	var (
		dryRun    bool
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "wp-authors",
		Short: "Backfill attributed authors from the post owner column",
		Long: `Walks every post of a participating post type and attributes the
native owner as its author. Posts that already have attributed authors
are skipped unless --overwrite-authors is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer c.Cleanup()

			counts, err := runWPAuthorsMigration(cmd.Context(), c.PostRepo, c.AttributionService, c.Types, dryRun, overwrite)
			if err != nil {
				return err
			}

			verb := "updated"
			if dryRun {
				verb = "would update"
			}
			fmt.Printf("%s %d of %d posts (%d skipped)\n", verb, counts.updated, counts.scanned, counts.skipped)

			if dryRun {
				fmt.Println("dry run only, re-run with --dry-run=false to apply")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "report what would change without writing")
	cmd.Flags().BoolVar(&overwrite, "overwrite-authors", false, "re-attribute posts that already have authors")

	return cmd
}

type migrationCounts struct {
	updated int
	skipped int
	scanned int
}

func runWPAuthorsMigration(
	ctx context.Context,
	repo post.Repository,
	authors attribution.Service,
	types *post.TypeRegistry,
	dryRun, overwrite bool,
) (migrationCounts, error) {
	var counts migrationCounts

	page := 1
	for {
		q := &post.Query{
			PostType: types.SupportedTypes(),
			Status: []post.Status{
				post.StatusPublish, post.StatusFuture, post.StatusDraft,
				post.StatusPending, post.StatusPrivate, post.StatusTrash,
			},
			WithoutAuthors: !overwrite,
			// Posts with no owner have nobody to attribute; leave them out
			// so they are not re-fetched and re-counted on every pass.
			WithOwner: true,
			Page:      page,
			PerPage:   migrateBatchSize,
		}

		posts, err := repo.List(ctx, q)
		if err != nil {
			return counts, fmt.Errorf("failed to list posts: %w", err)
		}
		if len(posts) == 0 {
			break
		}

		batchUpdated := 0
		for i := range posts {
			p := &posts[i]
			counts.scanned++

			if dryRun {
				counts.updated++
				continue
			}

			if _, err := authors.SetAuthors(ctx, p, []int64{p.AuthorID}); err != nil {
				logger.Warn(fmt.Sprintf("failed to attribute post %d", p.ID), err)
				counts.skipped++
				continue
			}
			counts.updated++
			batchUpdated++
		}

		// Writes remove posts from the unattributed set, so the next
		// batch is on the first page again. Dry runs must advance, and so
		// must a batch that made no progress, or its posts would be
		// fetched forever.
		if dryRun || overwrite || batchUpdated == 0 {
			page++
		}

		if len(posts) < migrateBatchSize {
			break
		}

		// Pause between batches to keep load off the primary.
		time.Sleep(migrateBatchPause)
	}

	return counts, nil
}
