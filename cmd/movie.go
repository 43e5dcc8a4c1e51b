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
	movieName    string
	movieMaxSize string
	movieProfile string
	movieImdbID  string
)

// addMovieCmd represents the add movie command
var addMovieCmd = &cobra.Command{
	Use:   "movie",
	Short: "track a movie",
	Long:  `track a movie; the next cycle searches for it`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.New(viper.GetViper())
		if err != nil {
			log.Fatalf("failed to read configurations: %v", err)
		}

		maxSize, err := humanize.ParseBytes(movieMaxSize)
		if err != nil {
			log.Fatalf("failed to parse max size: %v", err)
		}

		store, err := sqlite.NewWithMigrations(cfg.Storage.FilePath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer store.Close()

		movie := storage.Movie{
			Movie: model.Movie{
				Name:              cases.Title(language.English).String(movieName),
				MaxSizeBytes:      int64(maxSize),
				ResolutionProfile: movieProfile,
			},
		}
		if movieImdbID != "" {
			movie.ImdbID = &movieImdbID
		}

		id, err := store.CreateMovie(context.Background(), movie)
		if err != nil {
			log.Fatalf("failed to create movie: %v", err)
		}

		log.Printf("tracking %q as movie %d", movie.Name, id)
	},
}

// listMovieCmd represents the list movie command
var listMovieCmd = &cobra.Command{
	Use:   "movie",
	Short: "list tracked movies",
	Long:  `list tracked movies`,
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

		movies, err := store.ListMovies(context.Background())
		if err != nil {
			log.Fatalf("failed to list movies: %v", err)
		}

		for _, m := range movies {
			log.Printf("%d\t%s\t%s\t%s\t%s", m.ID, m.Name, m.State, m.ResolutionProfile, humanize.Bytes(uint64(m.MaxSizeBytes)))
		}
	},
}

func init() {
	addMovieCmd.Flags().StringVarP(&movieName, "name", "n", "", "movie name")
	addMovieCmd.Flags().StringVar(&movieMaxSize, "max-size", "4 GB", "largest acceptable download, e.g. 4 GB")
	addMovieCmd.Flags().StringVarP(&movieProfile, "profile", "p", "1080p", "comma separated resolutions to search")
	addMovieCmd.Flags().StringVar(&movieImdbID, "imdb", "", "imdb id, e.g. tt0137523")
	_ = addMovieCmd.MarkFlagRequired("name")

	addCmd.AddCommand(addMovieCmd)

	listCmd.AddCommand(listMovieCmd)
}
