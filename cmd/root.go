package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zero-day-ai/protomap/cmd/util"
)

const (
	Version = "0.1.0"
)

// NewRootCmd builds the protomap command tree. Each tree reads its settings
// through its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "protomap",
		Short: "convert protobuf messages to and from generic mappings",
		Long: fmt.Sprintf(`protomap (v%s)

Converts protobuf messages to JSON or YAML mappings and back, using the
message types declared in protoc descriptor sets.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			util.InitConfig(v)
			return util.BindCommandFlags(v, cmd)
		},
	}

	key := "config"
	root.PersistentFlags().String(key, "", util.WrapString("path to a protomap.yaml file, or a directory containing one"))
	key = "descriptors"
	root.PersistentFlags().StringSlice(key, nil, util.WrapString("descriptor set files written by protoc --include_imports --descriptor_set_out (repeatable)"))
	key = "message"
	root.PersistentFlags().String(key, "", util.WrapString("full name of the message type, e.g. acme.v1.Order"))
	key = "verbose"
	root.PersistentFlags().BoolP(key, "v", false, util.WrapString("log debug output to stderr"))

	root.AddCommand(newEncodeCmd(v))
	root.AddCommand(newDecodeCmd(v))
	root.AddCommand(newListCmd(v))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of protomap",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "protomap v%s\n", Version)
		},
	})

	return root
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
