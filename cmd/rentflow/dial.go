package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/rentflow/internal/config"
	"github.com/Veraticus/rentflow/internal/server"
	"github.com/Veraticus/rentflow/internal/tui"
	"github.com/Veraticus/rentflow/internal/ussd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dial",
		Short: "Simulate a handset dialling the USSD menu",
		Long: `Open an interactive handset simulator against a running callback
server. Each reply is sent with the full transcript, exactly as a
carrier would.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			phone, _ := cmd.Flags().GetString("phone")
			serviceCode, _ := cmd.Flags().GetString("service-code")
			url, _ := cmd.Flags().GetString("url")

			if r := ussd.ValidatePhoneNumber(phone); !r.IsValid() {
				return fmt.Errorf("phone must look like +254712345678, got %q", phone)
			}
			if url == "" {
				url = callbackURL(viper.GetString("server.addr"))
			}

			return tui.RunDial(cmd.Context(), tui.DialConfig{
				Sender:      tui.NewCallbackClient(url, 0),
				PhoneNumber: phone,
				ServiceCode: serviceCode,
			})
		},
	}

	cmd.Flags().String("phone", "+254712345678", "caller MSISDN")
	cmd.Flags().String("service-code", "*384*1#", "USSD service code")
	cmd.Flags().String("url", "", "callback URL (default: derived from server.addr)")

	return cmd
}

// callbackURL points at a locally running server.
func callbackURL(addr string) string {
	if addr == "" {
		addr = config.DefaultAddr
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + server.CallbackPath
}
