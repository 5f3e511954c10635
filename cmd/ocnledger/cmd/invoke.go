package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xuperchain/ocnledger/kernel/common/xconfig"
	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/engines"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

type InvokeCmd struct {
	BaseCmd
}

func GetInvokeCmd() *InvokeCmd {
	invokeCmdIns := new(InvokeCmd)

	// 定义命令行参数变量
	var (
		envCfgPath string
		from       string
		kvs        []string
		signature  string
	)

	invokeCmdIns.cmd = &cobra.Command{
		Use:   "invoke <contract> <method>",
		Short: "Apply one operation to the local ledger.",
		Long: "Apply one operation to the local ledger. Raw registry methods take the subject as " +
			"--arg owner=<address> plus --sig from the sign command; the signer must be that owner.",
		Example: "ocnledger invoke --conf conf/env.yaml --from 0x... Registry register " +
			"--arg country_code=DE --arg party_id=ABC --arg url=https://node.de",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := ParseCallArgs(kvs, signature)
			if err != nil {
				return err
			}
			engine, err := openEngine(envCfgPath)
			if err != nil {
				return err
			}
			defer engine.Exit()

			resp, err := engine.Invoke(context.Background(), from, args[0], args[1], callArgs)
			return printResponse(cmd.OutOrStdout(), resp, err)
		},
	}

	// 设置命令行参数并绑定变量
	flags := invokeCmdIns.cmd.Flags()
	flags.StringVarP(&envCfgPath, "conf", "c", "", "engine environment config file path")
	flags.StringVar(&from, "from", "", "initiator address, ignored by raw methods")
	flags.StringArrayVarP(&kvs, "arg", "a", nil, "contract argument as key=value, repeatable")
	flags.StringVar(&signature, "sig", "", "OCN-Signature string, expands to v, r and s")

	return invokeCmdIns
}

// ParseCallArgs 解析key=value形式的参数，sig不为空时展开为v、r、s
func ParseCallArgs(kvs []string, signature string) (common.Args, error) {
	args := common.NewArgs()
	for _, kv := range kvs {
		idx := strings.Index(kv, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("bad argument %q, want key=value", kv)
		}
		args[kv[:idx]] = []byte(kv[idx+1:])
	}

	if signature != "" {
		sig, err := sigauth.ParseSignature(signature)
		if err != nil {
			return nil, err
		}
		args = args.WithSignature(sig)
	}
	return args, nil
}

func openEngine(envCfgPath string) (*ocn.Engine, error) {
	envCfg, err := xconfig.LoadEnvConf(envCfgPath)
	if err != nil {
		return nil, err
	}
	engine, err := engines.CreateBCEngine(ocn.BCEngineName, envCfg)
	if err != nil {
		return nil, err
	}
	return ocn.EngineConvert(engine)
}

type cliResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Body    string `json:"body,omitempty"`
}

func printResponse(w io.Writer, resp *contract.Response, err error) error {
	out := cliResponse{Status: common.StatusOf(err)}
	if err != nil {
		out.Message = err.Error()
	} else if resp != nil {
		out.Body = string(resp.Body)
	}

	data, merr := json.MarshalIndent(out, "", "  ")
	if merr != nil {
		return merr
	}
	fmt.Fprintln(w, string(data))
	return err
}
