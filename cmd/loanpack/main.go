package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"loanpack/internal/config"
	"loanpack/internal/key"
	"loanpack/internal/libby"
	"loanpack/internal/overdrive"
	"loanpack/internal/packager"
)

var rootCmd = &cobra.Command{
	Use:   "loanpack <loan.json>",
	Short: "Assemble a catalog ebook or magazine loan into an EPUB",
	Long: `loanpack fetches the content roster of a book or magazine loan and
assembles a standards-compliant EPUB 2/3 package from it.

The loan, open book and roster descriptions are read from JSON files; the
content itself is fetched over the authenticated reader session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Setup(); err != nil {
			return err
		}

		loanPath := args[0]
		baseDir := filepath.Dir(loanPath)

		var loan libby.Loan
		if err := readJSON(loanPath, &loan); err != nil {
			return err
		}

		openbookPath, _ := cmd.Flags().GetString("openbook")
		if openbookPath == "" {
			openbookPath = filepath.Join(baseDir, "openbook.json")
		}
		var openbook libby.OpenBook
		if err := readJSON(openbookPath, &openbook); err != nil {
			return err
		}

		rostersPath, _ := cmd.Flags().GetString("rosters")
		if rostersPath == "" {
			rostersPath = filepath.Join(baseDir, "rosters.json")
		}
		var rosters []libby.Roster
		if err := readJSON(rostersPath, &rosters); err != nil {
			return err
		}

		coverPath, _ := cmd.Flags().GetString("cover")

		timeout := viper.GetDuration(key.DownloadTimeout)
		retries := viper.GetInt(key.DownloadRetries)

		pipeline := packager.New(packager.Options{
			Fs: afero.NewOsFs(),
			Metadata: overdrive.NewClient(overdrive.ClientOptions{
				Timeout: timeout,
				Retries: retries,
			}),
			Fetcher: libby.NewClient(libby.ClientOptions{
				Timeout: timeout,
				Retries: retries,
			}),
			DownloadDir:     viper.GetString(key.DownloadDir),
			ExcludePrefixes: viper.GetStringSlice(key.DownloadExcludePrefixes),
			Debug:           viper.GetBool(key.DebugKeepArtifacts),
			HideProgress:    viper.GetBool(key.DownloadHideProgress),
		})

		epubPath, err := pipeline.Run(cmd.Context(), loan, openbook, rosters, coverPath)
		if err != nil {
			return fmt.Errorf("assembly failed: %w", err)
		}

		logrus.Infof("Done: %s", epubPath)
		return nil
	},
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func init() {
	flags := rootCmd.Flags()
	flags.String("openbook", "", "Open book JSON path (default: openbook.json next to the loan file)")
	flags.String("rosters", "", "Rosters JSON path (default: rosters.json next to the loan file)")
	flags.String("cover", "", "Local cover image copied into the package as cover.jpg")
	flags.StringP("output-dir", "o", ".", "Directory the .epub is written to")
	flags.Bool("debug", false, "Retain intermediate artifacts and pretty-print the package document")
	flags.Bool("hide-progress", false, "Suppress the per-asset progress bar")

	cobra.CheckErr(viper.BindPFlag(key.DownloadDir, flags.Lookup("output-dir")))
	cobra.CheckErr(viper.BindPFlag(key.DebugKeepArtifacts, flags.Lookup("debug")))
	cobra.CheckErr(viper.BindPFlag(key.DownloadHideProgress, flags.Lookup("hide-progress")))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
