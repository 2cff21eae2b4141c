package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/client"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer release is available",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func currentPlatform() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return "windows", nil
	case "darwin":
		return "macos", nil
	default:
		return "", fmt.Errorf("no release channel for %s", runtime.GOOS)
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	platform, err := currentPlatform()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	info, err := client.New(cfg.ServerURL).CheckUpdate(ctx, Version, platform)
	if err != nil {
		return err
	}

	if !info.HasUpdate {
		msg := "you are up to date"
		if info.Message != "" {
			msg = info.Message
		}
		fmt.Println(cli.Green(msg))
		return nil
	}

	fmt.Printf("new version %s available\n", cli.Green(info.Version))
	if info.Description != "" {
		fmt.Println(info.Description)
	}
	fmt.Printf("download: %s\n", info.DownloadURL)
	return nil
}
