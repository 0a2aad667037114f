package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	relayerhttp "github.com/blockvault/storage-proof-relayer/internal/http"
	"github.com/blockvault/storage-proof-relayer/internal/relay"
)

var urlRelayer string

const (
	UrlFlagName      = "url"
	BlockFlagName    = "block"
	SlotFlagName     = "slot"
	ContractFlagName = "contract"
)

// QueryCmd represents the query command
var QueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a running proof relayer",
}

func init() {
	QueryCmd.PersistentFlags().StringVarP(&urlRelayer, UrlFlagName, "u", "http://127.0.0.1:3001", "server url")

	ProofCmd.Flags().String(BlockFlagName, "latest", "block number (decimal or 0x hex) or tag")
	ProofCmd.Flags().String(SlotFlagName, "", "storage slot, 0x prefixed hex")
	ProofCmd.Flags().String(ContractFlagName, "", "contract address, the relayer default when empty")
	_ = ProofCmd.MarkFlagRequired(SlotFlagName)

	QueryCmd.AddCommand(StatusCmd)
	QueryCmd.AddCommand(ProofCmd)
	RootCmd.AddCommand(QueryCmd)
}

// StatusCmd represents the status command
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the relayer status resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("failed to get relayer status: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), status)
		return nil
	},
}

// ProofCmd represents the proof command
var ProofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Request a storage proof from the relayer",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		var req relay.ProofRequest
		if req.BlockNumber, err = cmd.Flags().GetString(BlockFlagName); err != nil {
			return err
		}
		if req.StorageSlot, err = cmd.Flags().GetString(SlotFlagName); err != nil {
			return err
		}
		if req.ContractAddress, err = cmd.Flags().GetString(ContractFlagName); err != nil {
			return err
		}

		res, err := client.GetProof(req)
		if err != nil {
			return fmt.Errorf("failed to get proof: %w", err)
		}

		var response bytes.Buffer
		encoder := json.NewEncoder(&response)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(res); err != nil {
			return fmt.Errorf("failed to encode proof response: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), response.String())

		if !res.Success && res.Error != nil {
			return fmt.Errorf("relayer returned %s: %s", res.Error.Kind, res.Error.Message)
		}
		return nil
	},
}

func newClient(cmd *cobra.Command) (*relayerhttp.RelayerClient, error) {
	url, err := cmd.Flags().GetString(UrlFlagName)
	if err != nil {
		return nil, err
	}

	client, err := relayerhttp.NewRelayerClient(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get new relayer client: %w", err)
	}
	return client, nil
}
