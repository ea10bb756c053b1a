package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the saved quest log with the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()
			return resetCommand(cmd.Context(), s.store, cmd.InOrStdin(), cmd.OutOrStdout(), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Overwrite without asking")
	return cmd
}

// resetCommand writes the default quest log, asking first when something is already saved.
func resetCommand(ctx context.Context, store *Store, in io.Reader, out io.Writer, yes bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, exists, err := store.Raw(ctx)
	if err != nil {
		return fmt.Errorf("read saved quest log: %w", err)
	}

	if exists && !yes {
		fmt.Fprint(out, "A quest log is already saved. Overwrite? (y/N): ")
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	st := store.Reset(ctx)
	tasks := 0
	for _, c := range st.Sections {
		tasks += len(c.Tasks)
	}
	fmt.Fprintln(out, "✓ Quest log reset to defaults")
	fmt.Fprintf(out, "  Lists: %d\n", len(st.Sections))
	fmt.Fprintf(out, "  Quests: %d\n", tasks)
	fmt.Fprintln(out, "\nRun 'questlog' to open it!")
	return nil
}
