package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	var (
		apiURL  string
		guestID string
		token   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Load and print a user's dashboard from a running API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if guestID == "" && token == "" {
				return fmt.Errorf("one of --guest or --token is required")
			}
			url := strings.TrimRight(apiURL, "/") + "/api/v1/dashboard"
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			} else {
				req.Header.Set("X-Guest-Id", guestID)
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("fetch dashboard: %w", err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read dashboard: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("fetch dashboard: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, body, "", "  "); err != nil {
				return fmt.Errorf("decode dashboard: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&guestID, "guest", "", "guest id to act as")
	cmd.Flags().StringVar(&token, "token", "", "bearer token to act as a signed-in user")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}
