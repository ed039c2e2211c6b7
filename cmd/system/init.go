package system

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nabhcare/nabh-backend/config"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Print the effective configuration",
		Long:  `Resolve config.yaml plus NABH_* environment overrides and print the result with secrets masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			out, err := json.MarshalIndent(redacted(*cfg), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	return cmd
}

// redacted masks every credential-bearing field before printing.
func redacted(c config.Config) config.Config {
	c.Database.URI = mask(c.Database.URI)
	c.Redis.Password = mask(c.Redis.Password)
	c.Authentication.Paseto.LocalKeyHex = mask(c.Authentication.Paseto.LocalKeyHex)
	c.Authentication.Paseto.SecretKeyHex = mask(c.Authentication.Paseto.SecretKeyHex)
	c.AI.APIKey = mask(c.AI.APIKey)
	c.Email.SMTP.Password = mask(c.Email.SMTP.Password)
	c.SMS.SMSIR.APIKey = mask(c.SMS.SMSIR.APIKey)
	c.SMS.SMSIR.SecretKey = mask(c.SMS.SMSIR.SecretKey)
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "<set>"
}
