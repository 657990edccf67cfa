package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coinbase/sidh-go/pkg/sidh"
)

type keyRecord struct {
	Set        string `json:"set"`
	Role       string `json:"role"`
	PrivateKey string `json:"private_key,omitempty"`
	PublicKey  string `json:"public_key"`
}

type secretRecord struct {
	Set          string `json:"set"`
	Role         string `json:"role"`
	SharedSecret string `json:"shared_secret"`
}

func newKeygenCmd(a *app) *cobra.Command {
	var roleName, out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Sample a private key and derive its public key",
		Long: `Sample a private key for the given role and derive the public key.

With --out PREFIX the keys are written base64-encoded to PREFIX.key (mode
0600) and PREFIX.pub. Otherwise both are printed as a JSON record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := a.parameterSet()
			if err != nil {
				return err
			}
			role, err := sidh.ParseRole(roleName)
			if err != nil {
				return err
			}
			ka, err := a.keyAgreement("native", nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			priv, err := ka.SampleScalar(ctx, set, role)
			if err != nil {
				return err
			}
			defer sidh.ZeroizeBytes(priv)
			pub, err := ka.GeneratePublicKey(ctx, set, role, priv)
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeKey(out+".key", priv, 0o600); err != nil {
					return err
				}
				if err := writeKey(out+".pub", pub, 0o644); err != nil {
					return err
				}
				a.log.Info().Str("set", set.String()).Str("role", role.String()).Str("prefix", out).Msg("key pair written")
				fmt.Fprintf(cmd.OutOrStdout(), "%s.key\n%s.pub\n", out, out)
				return nil
			}
			return writeJSON(cmd, keyRecord{
				Set:        set.String(),
				Role:       role.String(),
				PrivateKey: base64.StdEncoding.EncodeToString(priv),
				PublicKey:  base64.StdEncoding.EncodeToString(pub),
			})
		},
	}
	cmd.Flags().StringVarP(&roleName, "role", "r", "A", "role: A or B")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write PREFIX.key and PREFIX.pub instead of printing")
	return cmd
}

func newAgreeCmd(a *app) *cobra.Command {
	var roleName, keyFile, peerFile string
	cmd := &cobra.Command{
		Use:   "agree",
		Short: "Derive the shared secret from a private key and a peer public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := a.parameterSet()
			if err != nil {
				return err
			}
			role, err := sidh.ParseRole(roleName)
			if err != nil {
				return err
			}
			priv, err := readKey(keyFile)
			if err != nil {
				return err
			}
			defer sidh.ZeroizeBytes(priv)
			peer, err := readKey(peerFile)
			if err != nil {
				return err
			}
			ka, err := a.keyAgreement("native", nil)
			if err != nil {
				return err
			}

			ss, err := ka.Agree(cmd.Context(), set, role, priv, peer)
			if err != nil {
				return err
			}
			defer sidh.ZeroizeBytes(ss)
			return writeJSON(cmd, secretRecord{
				Set:          set.String(),
				Role:         role.String(),
				SharedSecret: base64.StdEncoding.EncodeToString(ss),
			})
		},
	}
	cmd.Flags().StringVarP(&roleName, "role", "r", "A", "role of the private key: A or B")
	cmd.Flags().StringVarP(&keyFile, "key", "k", "", "file holding the base64 private key")
	cmd.Flags().StringVarP(&peerFile, "peer", "p", "", "file holding the base64 peer public key")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("peer")
	return cmd
}

func writeKey(path string, key []byte, perm os.FileMode) error {
	enc := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(enc+"\n"), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	key, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return key, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
