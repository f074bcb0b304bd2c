package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/fixtures"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Record a demonstration recruitment",
	Long:  "Creates a recruitment and records every stage up to --through with generated candidates, committee members and decisions.",
	RunE:  runSeed,
}

var (
	seedThrough    string
	seedCandidates int
	seedTitle      string
	seedComplete   bool
)

func init() {
	seedCmd.Flags().StringVarP(&seedThrough, "through", "t", models.FinalStage.String(), "Last stage to record")
	seedCmd.Flags().IntVarP(&seedCandidates, "candidates", "n", 3, "Number of candidates to apply")
	seedCmd.Flags().StringVar(&seedTitle, "title", "Programme Officer", "Position title")
	seedCmd.Flags().BoolVar(&seedComplete, "complete", false, "Fill the file checklist and complete the recruitment")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	through, ok := models.ParseStage(seedThrough)
	if !ok {
		return fmt.Errorf("unknown stage %q", seedThrough)
	}
	if seedComplete && through != models.FinalStage {
		return fmt.Errorf("--complete requires --through %s", models.FinalStage)
	}

	svc, store, err := openServices()
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := fixtures.Build(cmd.Context(), svc, fixtures.Options{
		PositionTitle: seedTitle,
		Candidates:    seedCandidates,
		Through:       through,
		Complete:      seedComplete,
	})
	if err != nil {
		return err
	}

	log.Printf("✅ Seeded recruitment %s (%s) at %s, status %s",
		res.Process.Code, res.Process.ID, res.Process.CurrentStep, res.Process.Status)
	return nil
}
