package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <id>...",
		Short: "Print the token for one or more numeric ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uint64, len(args))
			for i, arg := range args {
				id, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid id %q: %w", arg, err)
				}
				ids[i] = id
			}

			codec, err := rootOpts.codec()
			if err != nil {
				return err
			}
			token, err := codec.Encode(ids...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the numeric ids held by a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := rootOpts.codec()
			if err != nil {
				return err
			}
			ids, err := codec.Decode(args[0])
			if err != nil {
				return err
			}

			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = strconv.FormatUint(id, 10)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return nil
		},
	}
}
