package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

type QueryCmd struct {
	BaseCmd
}

func GetQueryCmd() *QueryCmd {
	queryCmdIns := new(QueryCmd)

	// 定义命令行参数变量
	var (
		envCfgPath string
		kvs        []string
	)

	queryCmdIns.cmd = &cobra.Command{
		Use:           "query <contract> <method>",
		Short:         "Query the local ledger without changing it.",
		Example:       "ocnledger query --conf conf/env.yaml Registry ownerOf --arg country_code=DE --arg party_id=ABC",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := ParseCallArgs(kvs, "")
			if err != nil {
				return err
			}
			engine, err := openEngine(envCfgPath)
			if err != nil {
				return err
			}
			defer engine.Exit()

			resp, err := engine.Query(context.Background(), args[0], args[1], callArgs)
			return printResponse(cmd.OutOrStdout(), resp, err)
		},
	}

	// 设置命令行参数并绑定变量
	flags := queryCmdIns.cmd.Flags()
	flags.StringVarP(&envCfgPath, "conf", "c", "", "engine environment config file path")
	flags.StringArrayVarP(&kvs, "arg", "a", nil, "contract argument as key=value, repeatable")

	return queryCmdIns
}
