package cmd

import (
	"context"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/grabarr/grabarr/config"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/grabarr/grabarr/pkg/storage/sqlite"
	"github.com/grabarr/grabarr/pkg/storage/sqlite/schema/gen/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	showName           string
	showMaxEpisodeSize string
	showProfile        string
	showImdbID         string
)

// addShowCmd represents the add show command
var addShowCmd = &cobra.Command{
	Use:   "show",
	Short: "track a show",
	Long:  `track a show; the next cycle discovers its seasons and episodes`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.New(viper.GetViper())
		if err != nil {
			log.Fatalf("failed to read configurations: %v", err)
		}

		maxSize, err := humanize.ParseBytes(showMaxEpisodeSize)
		if err != nil {
			log.Fatalf("failed to parse max episode size: %v", err)
		}

		store, err := sqlite.NewWithMigrations(cfg.Storage.FilePath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer store.Close()

		show := storage.Show{
			Show: model.Show{
				Name:                cases.Title(language.English).String(showName),
				MaxEpisodeSizeBytes: int64(maxSize),
				ResolutionProfile:   showProfile,
			},
		}
		if showImdbID != "" {
			show.ImdbID = &showImdbID
		}

		id, err := store.CreateShow(context.Background(), show)
		if err != nil {
			log.Fatalf("failed to create show: %v", err)
		}

		log.Printf("tracking %q as show %d", show.Name, id)
	},
}

// listShowCmd represents the list show command
var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "list tracked shows",
	Long:  `list tracked shows`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.New(viper.GetViper())
		if err != nil {
			log.Fatalf("failed to read configurations: %v", err)
		}

		store, err := sqlite.NewWithMigrations(cfg.Storage.FilePath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer store.Close()

		shows, err := store.ListShows(context.Background())
		if err != nil {
			log.Fatalf("failed to list shows: %v", err)
		}

		for _, s := range shows {
			log.Printf("%d\t%s\t%s\t%s\t%s per episode", s.ID, s.Name, s.State, s.ResolutionProfile, humanize.Bytes(uint64(s.MaxEpisodeSizeBytes)))
		}
	},
}

func init() {
	addShowCmd.Flags().StringVarP(&showName, "name", "n", "", "show name")
	addShowCmd.Flags().StringVar(&showMaxEpisodeSize, "max-episode-size", "1.5 GB", "largest acceptable episode download, e.g. 1.5 GB")
	addShowCmd.Flags().StringVarP(&showProfile, "profile", "p", "1080p", "comma separated resolutions to search")
	addShowCmd.Flags().StringVar(&showImdbID, "imdb", "", "imdb id, e.g. tt0306414")
	_ = addShowCmd.MarkFlagRequired("name")

	addCmd.AddCommand(addShowCmd)

	listCmd.AddCommand(listShowCmd)
}
