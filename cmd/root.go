/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	prof    interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "femcore",
	Short: "Finite element mesh topology and degree of freedom management",
	Long: `
Builds finite element meshes from node and element lists, stitches the shared edges and faces,
classifies border nodes and numbers the degrees of freedom.

femcore mesh -I input.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch viper.GetString("profile") {
		case "cpu":
			prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		case "mem":
			prof = profile.Start(profile.MemProfile, profile.ProfilePath("."))
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if prof != nil {
			prof.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.femcore.yaml)")
	rootCmd.PersistentFlags().Float64("nodeTol", 1.e-12, "coordinate tolerance for node equality")
	rootCmd.PersistentFlags().Float64("angleEps", 1.e-8, "angle tolerance for point containment")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile to the current directory")
	for _, name := range []string{"nodeTol", "angleEps", "profile"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".femcore" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".femcore")
	}

	viper.SetEnvPrefix("femcore")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
