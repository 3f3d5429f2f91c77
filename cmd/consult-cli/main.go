package main

import (
	"log"
	"os"
	"path"

	"github.com/jonsim/openconsult/consult"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var configFile string
var device string
var replay bool
var replayWrap bool
var logPath string
var printECU bool
var printFaults bool
var streamParams string
var quiet bool
var verbose bool

func init() {
	cobra.OnInitialize(func() {
		initConfig()
		postInitCommands(rootCmd.Commands())
	})

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.consult.yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "quiet all log output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "provide verbose output")

	rootCmd.Flags().StringVar(&logPath, "log", "", "record the transaction trace to this path")
	rootCmd.Flags().BoolVar(&replay, "replay", false, "treat the device argument as a replay log path instead of a serial device")
	rootCmd.Flags().BoolVar(&replayWrap, "replay_wrap", false, "wrap the replay log when it is exhausted, instead of failing")
	rootCmd.Flags().BoolVar(&printECU, "print_ecu", false, "read and print the ECU's metadata as JSON")
	rootCmd.Flags().BoolVar(&printFaults, "print_faults", false, "read and print the ECU's fault codes as JSON")
	rootCmd.Flags().StringVar(&streamParams, "stream", "", "comma-separated engine parameters to stream as newline-delimited JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(2)
	}
}

var rootCmd = &cobra.Command{
	Use:           "consult-cli device",
	Short:         "A CLI for interfacing with a Nissan ECU using the CONSULT-I protocol.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		device = args[0]
		return run(cmd)
	},
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(path.Base(configFile))
		viper.AddConfigPath(path.Dir(configFile))
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalf("finding home directory: %v\n", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".consult")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			if err = viper.SafeWriteConfig(); err != nil {
				log.Fatalf("creating config file: %v\n", err)
			}
		} else {
			log.Fatalf("reading config file: %v\n", err)
		}
	}
}

func postInitCommands(commands []*cobra.Command) {
	for _, cmd := range commands {
		presetRequiredFlags(cmd)
		if cmd.HasSubCommands() {
			postInitCommands(cmd.Commands())
		}
	}
}

func presetRequiredFlags(cmd *cobra.Command) {
	viper.BindPFlags(cmd.Flags())
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			cmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func consultLogger(cmd *cobra.Command) consult.Logger {
	if quiet || !verbose {
		return consult.NopLogger
	}
	return consult.DefaultLogger(cmd.OutOrStdout())
}
