package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/zero-day-ai/protomap/cmd/util"
	"github.com/zero-day-ai/protomap/registry"
)

func newListCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the message types declared by the descriptor sets",
		Long: `Prints the full name of every message type the descriptor sets declare,
one per line. Any of them can be passed to --message.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, v)
		},
	}

	key := "files"
	cmd.Flags().Bool(key, false, util.WrapString("list the .proto files instead of their messages"))

	return cmd
}

func runList(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := util.LoadConfig(v)
	if err != nil {
		return err
	}
	if len(cfg.Descriptors) == 0 {
		return fmt.Errorf("no descriptor sets given (use --descriptors or the config file)")
	}

	reg, err := registry.Load(cfg.Descriptors...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if v.GetBool("files") {
		reg.Files().RangeFiles(func(fd protoreflect.FileDescriptor) bool {
			fmt.Fprintln(w, fd.Path())
			return true
		})
		return nil
	}
	for _, name := range reg.Messages() {
		fmt.Fprintln(w, name)
	}
	return nil
}
