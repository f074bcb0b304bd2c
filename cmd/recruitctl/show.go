package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

var showCmd = &cobra.Command{
	Use:   "show <recruitment-id>",
	Short: "Print a recruitment with its stage artifacts and applications",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

type showOutput struct {
	Process      *models.RecruitmentProcess    `json:"process"`
	Artifacts    *services.ProcessArtifacts    `json:"artifacts"`
	Applications []models.CandidateApplication `json:"applications"`
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, store, err := openServices()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	proc, err := svc.Processes.Get(ctx, args[0])
	if err != nil {
		return err
	}
	artifacts, err := svc.Processes.Artifacts(ctx, proc.ID)
	if err != nil {
		return err
	}
	apps, err := svc.Applications.ListByProcess(ctx, proc.ID, "")
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(showOutput{Process: proc, Artifacts: artifacts, Applications: apps}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recruitment: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
