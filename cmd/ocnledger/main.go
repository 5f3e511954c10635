package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/xuperchain/ocnledger/cmd/ocnledger/cmd"
)

func main() {
	rootCmd, err := NewLedgerCommand()
	if err != nil {
		log.Fatalf("start ocnledger failed.err:%v", err)
	}

	if err = rootCmd.Execute(); err != nil {
		log.Fatalf("ocnledger failed.err:%v", err)
	}
}

func NewLedgerCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           "ocnledger <command> [arguments]",
		Short:         "Ocnledger is a tool for the OCN identity and permission ledger.",
		Long:          "Ocnledger is a tool for the OCN identity and permission ledger.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       "ocnledger invoke --conf /home/rd/ocnledger/conf/env.yaml --from 0x... Registry register --arg country_code=DE",
	}

	// cmd version
	rootCmd.AddCommand(cmd.GetVersionCmd().GetCmd())
	// cmd keygen
	rootCmd.AddCommand(cmd.GetKeygenCmd().GetCmd())
	// cmd sign
	rootCmd.AddCommand(cmd.GetSignCmd().GetCmd())
	// cmd invoke
	rootCmd.AddCommand(cmd.GetInvokeCmd().GetCmd())
	// cmd query
	rootCmd.AddCommand(cmd.GetQueryCmd().GetCmd())
	return rootCmd, nil
}
