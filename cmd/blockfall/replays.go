package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagReplayMode  string
	flagReplayLimit int
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Browse recorded games",
	Long: `Open the replay browser. Finished games are recorded with their seed,
rules and every command, so they can be re-simulated and checked.

Browser controls:
  Up/Down     - Select
  Enter       - Verify the selected replay
  D           - Delete the selected replay
  Tab         - Next mode filter
  Esc/Q       - Quit

Examples:
  blockfall replays
  blockfall replays list --mode sprint
  blockfall replays verify 12
  blockfall replays delete 12`,
	Args: cobra.NoArgs,
	RunE: runReplays,
}

var replaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recorded games, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runReplaysList,
}

var replaysVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Re-simulate a recorded game and check its outcome",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysVerify,
}

var replaysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded game",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysDelete,
}

func init() {
	replaysListCmd.Flags().StringVar(&flagReplayMode, "mode", "", "Only show this mode (marathon, sprint)")
	replaysListCmd.Flags().IntVar(&flagReplayLimit, "limit", 20, "Maximum number of replays to show")

	replaysCmd.AddCommand(replaysListCmd)
	replaysCmd.AddCommand(replaysVerifyCmd)
	replaysCmd.AddCommand(replaysDeleteCmd)
}

// verifyReplay re-simulates a stored replay.
func verifyReplay(r storage.Replay) error {
	_, err := tetris.Verify(tui.RecordingFromReplay(r))
	return err
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening replay database: %w", err)
	}
	return store, nil
}

func parseReplayID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid replay id %q", arg)
	}
	return id, nil
}

func runReplays(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	_, err = tui.RunReplayBrowser(store, verifyReplay, width, height)
	return err
}

func runReplaysList(cmd *cobra.Command, args []string) error {
	gameID := ""
	if flagReplayMode != "" {
		gameID = resolveGameID(flagReplayMode)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	replays, err := store.RecentReplays(gameID, flagReplayLimit)
	if err != nil {
		return fmt.Errorf("retrieving replays: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(replays) == 0 {
		fmt.Fprintln(out, "No replays recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Finish a game with 'blockfall play' to record one.")
		return nil
	}

	fmt.Fprintf(out, "  %-5s  %-14s  %-8s  %-5s  %-5s  %-6s  %s\n", "ID", "Mode", "Score", "Lines", "Level", "Pieces", "Date")
	fmt.Fprintf(out, "  %-5s  %-14s  %-8s  %-5s  %-5s  %-6s  %s\n", "--", "----", "-----", "-----", "-----", "------", "----")
	for _, r := range replays {
		mode := r.GameID
		if r.Won {
			mode += " *"
		}
		fmt.Fprintf(out, "  %-5d  %-14s  %-8d  %-5d  %-5d  %-6d  %s\n",
			r.ID, mode, r.Score, r.Lines, r.Level, r.Pieces, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	total, err := store.CountReplays(gameID)
	if err == nil && total > len(replays) {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Showing %d of %d. Use --limit to see more.\n", len(replays), total)
	}
	return nil
}

func runReplaysVerify(cmd *cobra.Command, args []string) error {
	id, err := parseReplayID(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := store.Replay(id)
	if err != nil {
		return fmt.Errorf("replay %d: %w", id, err)
	}

	snap, err := tetris.Verify(tui.RecordingFromReplay(r))
	if err != nil {
		logger.Error("replay failed verification", "id", id, "error", err)
		return fmt.Errorf("replay %d failed verification: %w", id, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Replay #%d verified: score %d, lines %d, level %d, %d pieces\n",
		id, snap.Score, snap.Lines, snap.Level, snap.Pieces)
	return nil
}

func runReplaysDelete(cmd *cobra.Command, args []string) error {
	id, err := parseReplayID(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteReplay(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("replay %d not found: %w", id, err)
		}
		return fmt.Errorf("deleting replay %d: %w", id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Replay #%d deleted.\n", id)
	return nil
}
