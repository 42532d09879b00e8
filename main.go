// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"github.com/spf13/cobra"

	"github.com/NPavelka/astronomical-practicum/internal"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFile    string

	// Registration flags, overriding the configuration when given
	crop    bool
	workers int

	// Stack flags
	outName    string
	shiftsFile string
	pngName    string

	// Server flags
	port int

	cfg *internal.Config
)

var rootCmd = &cobra.Command{
	Use:   "practicum",
	Short: "Registers and stacks multi-band astronomical images",
	Long: `practicum aligns the bands of a multi-band cube to a common reference
by sub-pixel Fourier shifts, repairs wrap-around at the edges, trims fully
invalid borders, and stacks the result weighted by exposure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err=internal.LoadConfig(configPath)
		if err!=nil { return err }
		if cmd.Flags().Changed("verbose") { cfg.Log.Verbose=verbose }
		if cmd.Flags().Changed("log")     { cfg.Log.FileName=logFile }
		if err:=internal.InitLogging(cfg.Log.Verbose, cfg.Log.FileName); err!=nil { return err }
		applyFlags(cmd)
		internal.LogSystemInfo()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		internal.LogSync()
	},
}

// Copies flags given on the command line into the configuration
func applyFlags(cmd *cobra.Command) {
	f:=cmd.Flags()
	if f.Changed("crop")    { cfg.Reg.Crop=crop }
	if f.Changed("workers") { cfg.Reg.Workers=workers }
	if f.Changed("out")     { cfg.Stack.OutName=outName }
	if f.Changed("shifts")  { cfg.Stack.ShiftsFile=shiftsFile }
	if f.Changed("png")     { cfg.Post.PngName=pngName }
	if f.Changed("port")    { cfg.Serve.Port=port }
}

var stackCmd = &cobra.Command{
	Use:   "stack [files or directories...]",
	Short: "Register and stack bands into one reduced image",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileNames, err:=internal.GlobFilenameWildcards(args)
		if err!=nil { return err }
		return internal.CmdStack(fileNames, &cfg.Pre, &cfg.Reg, &cfg.Post, &cfg.Stack)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [files or directories...]",
	Short: "Show statistics and histograms of bands",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileNames, err:=internal.GlobFilenameWildcards(args)
		if err!=nil { return err }
		return internal.CmdStats(fileNames, &cfg.Pre, &cfg.Stats)
	},
}

var rgbCmd = &cobra.Command{
	Use:   "rgb [files or directories...]",
	Short: "Register bands and combine them into a color composite",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileNames, err:=internal.GlobFilenameWildcards(args)
		if err!=nil { return err }
		return internal.CmdRgb(fileNames, &cfg.Pre, &cfg.Reg, &cfg.Stack, &cfg.Color)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stacking API and frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return internal.CmdServe(cfg.Serve.Port, cfg.Serve.StaticDir, &cfg.Reg)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err:=internal.SaveConfig(internal.DefaultConfig(), configPath); err!=nil { return err }
		internal.LogPrintf("Wrote default configuration to %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "practicum.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Also write log output to this file")

	for _, c:=range []*cobra.Command{stackCmd, rgbCmd} {
		c.Flags().BoolVar(&crop, "crop", false, "Keep only the region covered by all bands")
		c.Flags().IntVar(&workers, "workers", 0, "Parallel registration workers, 0 for automatic")
		c.Flags().StringVar(&shiftsFile, "shifts", "", "YAML file with pairwise shifts, measured if empty")
	}
	stackCmd.Flags().StringVarP(&outName, "out", "o", "", "FITS output file")
	stackCmd.Flags().StringVar(&pngName, "png", "", "PNG output file")
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(stackCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rgbCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err:=rootCmd.Execute(); err!=nil {
		internal.LogFatalf("Error: %s\n", err)
	}
}
