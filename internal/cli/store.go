package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Browse saved scenes",
	}
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved scenes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No saved scenes")
				printNextStep("Save one", "meru tree 5 --save")
				return nil
			}

			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				rows[i] = []string{s.ID, string(s.Kind), s.Name, s.Title, s.CreatedAt.Local().Format("2006-01-02 15:04")}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Kind", "Name", "Title", "Created").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == -1:
						return headerStyle
					case col == 0:
						return StyleDim
					case col == 1:
						return StyleHighlight
					}
					return StyleValue
				})
			fmt.Fprintln(stdout, t.Render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of scenes to list (0 for all)")
	return cmd
}

func (c *CLI) storeShowCommand() *cobra.Command {
	var (
		export string
		parity bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved scene, or export it with --export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := merr.ValidateSceneID(args[0]); err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if export != "" {
				if err := scene.WriteFile(rec.Scene, export); err != nil {
					return err
				}
				printSuccess("Exported %s", rec.ID)
				printFile(export)
				printNextStep("Render it", "meru render "+export)
				return nil
			}

			printKeyValue("ID", rec.ID)
			if rec.Name != "" {
				printKeyValue("Name", rec.Name)
			}
			printKeyValue("Created", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("Elements", strconv.Itoa(rec.Scene.Size()))
			printNewline()
			printScene(rec.Scene, parity)
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "write the scene to this .json or .yaml file")
	cmd.Flags().BoolVar(&parity, "parity", false, "highlight odd triangle entries")
	return cmd
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := merr.ValidateSceneID(args[0]); err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
