package root

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/embedding"
)

type ndjsonEntry struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// newLoadTextsCmd implements NDJSON text-document import: one {id, content}
// object per line; id becomes the URL, the filename part of id becomes the
// title, and _imported_ is applied.
func newLoadTextsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load-texts <file>",
		Short: "Import bookmarks from an NDJSON text-document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Open(ctx); err != nil {
				return err
			}
			if app.svc.Embedder.Kind() == embedding.KindDummy {
				return bkmrerr.ErrDummyEmbedder
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

			added, total := 0, 0
			lineNo := 0
			for scanner.Scan() {
				lineNo++
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				total++

				var entry ndjsonEntry
				if err := json.Unmarshal(line, &entry); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", lineNo, err)
					continue
				}

				tags := bookmark.TagSet{}
				tags.Add(bookmark.SysImported)
				b := &bookmark.Bookmark{
					URL:         entry.ID,
					Title:       filepath.Base(entry.ID),
					Description: entry.Content,
					Tags:        tags,
				}
				if err := app.svc.Add(ctx, b); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", lineNo, err)
					continue
				}
				added++
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d text document(s)\n", added, total)
			return nil
		},
	}
}
