package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const showWidth = 100

func newShowCmd(opts *options) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the quest log once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()
			return showCommand(cmd.Context(), s, cmd.OutOrStdout(), width)
		},
	}
	cmd.Flags().IntVar(&width, "width", showWidth, "Output width in columns")
	return cmd
}

func showCommand(ctx context.Context, s *session, out io.Writer, width int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app := NewApp(ctx, s.store, s.log)
	_, err := fmt.Fprintln(out, paint(app.Root(), paintOptions{width: width}))
	return err
}

func newExportCmd(opts *options) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the saved quest log as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.close()
			return exportCommand(cmd.Context(), s.store, cmd.OutOrStdout(), pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

// exportCommand prints the stored blob. With nothing saved (or an unreadable blob) it prints
// what the app would load instead.
func exportCommand(ctx context.Context, store *Store, out io.Writer, pretty bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, ok, err := store.Raw(ctx)
	if err != nil {
		return fmt.Errorf("read saved quest log: %w", err)
	}
	if !ok || !json.Valid([]byte(raw)) {
		b, err := json.Marshal(store.Load(ctx))
		if err != nil {
			return err
		}
		raw = string(b)
	}
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
			return err
		}
		raw = buf.String()
	}
	_, err = fmt.Fprintln(out, raw)
	return err
}
