package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pinboard/internal/canvas"
)

var (
	exportBoard  string
	exportWidth  int
	exportHeight int
)

var exportCmd = &cobra.Command{
	Use:       "export png|txt OUT",
	Short:     "Render a board to a PNG image or a text file",
	Args:      cobra.MatchAll(cobra.ExactArgs(2), validExportFormat),
	ValidArgs: []string{"png", "txt"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context(), config, logData.Logger)
		if err != nil {
			return err
		}
		c, err := pickBoard(ws, exportBoard)
		if err != nil {
			return err
		}

		format, out := args[0], args[1]
		board, notes := c.Board(), c.Notes()
		switch format {
		case "png":
			err = exportPNG(out, board, notes)
		case "txt":
			snap, cols, rows := fitSnapshot(board, notes)
			if exportWidth > 0 {
				cols = exportWidth
			}
			if exportHeight > 0 {
				rows = exportHeight
			}
			err = exportTXT(out, snap, cols, rows)
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", board.Name, err)
		}
		logData.Logger.Info().Str("board", board.Name).Str("path", out).Str("format", format).Msg("exported")
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", board.Name, out)
		return nil
	},
}

func validExportFormat(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "png", "txt":
		return nil
	default:
		return fmt.Errorf("unknown export format %q, want png or txt", args[0])
	}
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List boards with their note counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context(), config, logData.Logger)
		if err != nil {
			return err
		}
		return writeBoardList(cmd.OutOrStdout(), ws)
	},
}

func writeBoardList(w io.Writer, ws *canvas.Workspace) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tNOTES\tZOOM")
	active := ws.ActiveIndex()
	for i, b := range ws.Boards() {
		c, _ := ws.Board(b.ID)
		marker := ""
		if i == active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d%%\n", marker, b.Name, len(c.Notes()), b.Viewport.Percent())
	}
	return tw.Flush()
}

func init() {
	exportCmd.Flags().StringVarP(&exportBoard, "board", "b", "", "board name (default the active board)")
	exportCmd.Flags().IntVar(&exportWidth, "width", 0, "text export width in columns (default fits every note)")
	exportCmd.Flags().IntVar(&exportHeight, "height", 0, "text export height in rows (default fits every note)")

	rootCmd.AddCommand(exportCmd, boardsCmd)
}
